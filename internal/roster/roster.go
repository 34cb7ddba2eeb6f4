package roster

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRoster is returned when a roster document cannot be decoded or
// carries a record outside the data contract.
var ErrInvalidRoster = errors.New("roster: invalid roster")

//go:embed roster.json
var defaultRoster []byte

var validate = validator.New()

// Roster is the immutable ordered list of projects loaded at start-up.
type Roster struct {
	projects []Project
}

type document struct {
	Projects []Project `json:"projects" validate:"dive"`
}

// New validates the given projects and returns a roster holding a private copy.
func New(projects []Project) (*Roster, error) {
	doc := document{Projects: projects}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return &Roster{projects: cloneAll(projects)}, nil
}

// Load decodes a JSON roster document of the form {"projects": [...]}.
func Load(r io.Reader) (*Roster, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidRoster, err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return &Roster{projects: doc.Projects}, nil
}

// LoadFile reads a roster document from disk.
func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the compiled-in roster.
func Default() (*Roster, error) {
	return Load(bytes.NewReader(defaultRoster))
}

// Projects returns a copy of the roster in insertion order.
func (r *Roster) Projects() []Project {
	if r == nil {
		return nil
	}
	return cloneAll(r.projects)
}

// Load satisfies the workload source contract; the roster never fails.
func (r *Roster) Load(ctx context.Context) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Projects(), nil
}

// Len reports the number of projects.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.projects)
}

func validateDocument(doc document) error {
	if err := validate.Struct(doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "document."), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRoster, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	return nil
}

func cloneAll(projects []Project) []Project {
	if projects == nil {
		return nil
	}
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
