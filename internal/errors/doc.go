// Package errors provides the coded error type used across the game.
//
// Every failure that reaches the command loop carries a Code, so the loop can
// tell a bad command apart from a broken save file:
//
//	err := errors.NotFoundf("item %d not in inventory", id)
//	err := errors.FailedPrecondition("no enemy to attack")
//
// Wrapping keeps the original code:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save game")
//	}
//
// Checking:
//
//	if errors.IsNotFound(err) {
//	    // start a fresh game
//	}
//	fmt.Println(errors.GetMessage(err))
//
// Config validation goes through the builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("SaveSlot", cfg.SaveSlot, vb)
//	return vb.Build()
//
// Layer guidelines:
//   - entities and game state return NotFound, OutOfRange, AlreadyExists and
//     FailedPrecondition for rule violations and leave state untouched
//   - the command processor returns InvalidArgument for unparseable input
//   - repositories return NotFound for a missing slot and DataLoss for a save
//     that no longer decodes
//   - the console handler prints GetMessage for recoverable codes and logs the rest
package errors
