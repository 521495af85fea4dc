package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ultima-end/internal/errors"
)

type fixedRoller struct {
	face  int
	err   error
	calls int
}

func (r *fixedRoller) Roll(_ int) (int, error) {
	r.calls++
	return r.face, r.err
}

func (r *fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func TestPick(t *testing.T) {
	testCases := []struct {
		name    string
		n       int
		face    int
		rollErr error
		want    int
		code    errors.Code
		calls   int
	}{
		{name: "first face maps to zero", n: 6, face: 1, want: 0, calls: 1},
		{name: "last face maps to n-1", n: 6, face: 6, want: 5, calls: 1},
		{name: "single choice skips the roll", n: 1, face: 4, want: 0, calls: 0},
		{name: "empty range", n: 0, code: errors.CodeInvalidArgument},
		{name: "negative range", n: -2, code: errors.CodeInvalidArgument},
		{name: "roll above the die", n: 6, face: 7, code: errors.CodeInternal, calls: 1},
		{name: "roll below the die", n: 6, face: 0, code: errors.CodeInternal, calls: 1},
		{name: "roller failure", n: 6, rollErr: errors.Internal("dice jammed"), code: errors.CodeInternal, calls: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			roller := &fixedRoller{face: tc.face, err: tc.rollErr}

			got, err := pick(roller, tc.n)

			assert.Equal(t, tc.calls, roller.calls)
			if tc.code != "" {
				require.Error(t, err)
				assert.Equal(t, tc.code, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
