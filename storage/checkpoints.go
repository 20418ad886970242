package storage

import (
	"github.com/plasmanet/plasma-go/model/plasma"
)

// Checkpoints persists the verified-position cursor across restarts. The
// guard initializes it explicitly and writes it through on every advance.
type Checkpoints interface {

	// Position returns the persisted cursor. It returns ErrNotFound when no
	// checkpoint has been initialized yet.
	Position() (plasma.VerifiedPosition, error)

	// InitPosition stores the initial cursor. It returns ErrAlreadyExists
	// when a checkpoint is already present.
	InitPosition(pos plasma.VerifiedPosition) error

	// SetPosition overwrites the cursor with the given value. It returns
	// ErrNotFound when the checkpoint was never initialized.
	SetPosition(pos plasma.VerifiedPosition) error
}
