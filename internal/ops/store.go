package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/db"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/profile"
)

// StoreMode controls collision behavior.
type StoreMode string

const (
	StoreModeError   StoreMode = "error"   // default: fail on name collision
	StoreModeReplace StoreMode = "replace" // overwrite existing
)

// StoreInput contains parameters for the Store operation.
type StoreInput struct {
	Owner     string  // default: "default"
	Name      *string // optional
	Label     *string // default: same as name, or nil
	Birth     birth.Record
	Ayanamsa  string
	NodeModel string
	Mode      StoreMode // default: StoreModeError
}

// StoreOutput contains the result of the Store operation.
type StoreOutput struct {
	ID       string `json:"id"`
	Ref      Ref    `json:"ref"`
	Degraded bool   `json:"degraded"`
}

// Store computes a chart and saves it, creating or replacing by name.
func Store(ctx context.Context, database *sql.DB, engine *Engine, input StoreInput) (*StoreOutput, error) {
	// Apply defaults
	if strings.TrimSpace(input.Owner) == "" {
		input.Owner = profile.DefaultOwner
	}
	input.Owner = strings.TrimSpace(input.Owner)
	input.Label = cleanOptionalString(input.Label)
	if input.Mode == "" {
		input.Mode = StoreModeError
	}
	if input.Mode != StoreModeError && input.Mode != StoreModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	ownerNorm := profile.Normalize(input.Owner)
	if ownerNorm == "" {
		return nil, errors.NewInvalidRequest("owner must not be empty")
	}
	if profile.CountChars(input.Owner) > profile.MaxNameChars {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("owner exceeds %d characters", profile.MaxNameChars))
	}

	// Normalize name if provided
	var nameRaw, nameNorm *string
	if input.Name != nil {
		normalized := profile.Normalize(*input.Name)
		if normalized == "" {
			return nil, errors.NewInvalidRequest("name must not be empty (omit it for unnamed charts)")
		}
		if profile.CountChars(*input.Name) > profile.MaxNameChars {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("name exceeds %d characters", profile.MaxNameChars))
		}
		raw := strings.TrimSpace(*input.Name)
		nameRaw = &raw
		nameNorm = &normalized
	}

	label := input.Label
	if label == nil && nameRaw != nil {
		label = nameRaw
	}

	c, err := engine.Compute(input.Birth, input.Ayanamsa, input.NodeModel)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()

	// Generate ULID for new chart (may be discarded if upsert updates existing)
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	p := &profile.Profile{
		ID:        id,
		OwnerRaw:  input.Owner,
		OwnerNorm: ownerNorm,
		NameRaw:   nameRaw,
		NameNorm:  nameNorm,
		Label:     label,
		Birth:     input.Birth,
		Ayanamsa:  c.Ayanamsa.Model,
		NodeModel: c.NodeModel,
		Chart:     c,
		CreatedAt: now,
		UpdatedAt: now,
	}

	name := ""
	if nameRaw != nil {
		name = *nameRaw
	}

	if input.Mode == StoreModeReplace {
		// Atomic UPSERT: an active chart with the same (owner, name) is
		// updated in place and keeps its ID.
		writtenID, err := db.Upsert(ctx, database, p)
		if err != nil {
			return nil, err
		}
		return &StoreOutput{
			ID:       writtenID,
			Ref:      BuildRef(input.Owner, name, writtenID),
			Degraded: c.Degraded,
		}, nil
	}

	// mode:error - Insert and fail on conflict
	if err := db.Insert(ctx, database, p); err != nil {
		if errors.Is(err, db.ErrUniqueConstraint.Code) {
			return nil, errors.NewNameAlreadyExists(input.Owner, name)
		}
		return nil, err
	}

	return &StoreOutput{
		ID:       id,
		Ref:      BuildRef(input.Owner, name, id),
		Degraded: c.Degraded,
	}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
