package collection

import "context"

// Confirmer is the blocking yes/no gate asked before destructive operations.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Confirmed answers every prompt with its own value.
type Confirmed bool

// Confirm answers c without asking.
func (c Confirmed) Confirm(context.Context, string) (bool, error) {
	return bool(c), nil
}

func confirm(ctx context.Context, gate Confirmer, prompt string) error {
	if gate == nil {
		return ErrDeclined
	}
	ok, err := gate.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
