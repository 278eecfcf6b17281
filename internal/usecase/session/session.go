package session

import (
	"sync"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/usecase/simulation"
	"github.com/futig/parallel-universe/internal/wizard"
)

// Session is one run of the wizard. mu serialises edits and transitions;
// the submission state has its own lock so it stays readable while a
// submission is in flight.
type Session struct {
	mu sync.Mutex

	ID        string
	ClientID  string
	Form      entity.FormSnapshot
	Wizard    *wizard.Controller
	Submit    *simulation.State
	CreatedAt time.Time
	UpdatedAt time.Time
}
