package form

import (
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Form names used as in-flight keys.
const (
	ProductFormName = "product"
	BlogFormName    = "blog"
)

// A Guard tracks in-flight submissions so that one form of one session
// is never submitted twice concurrently.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

// Begin marks the submission of formName by sessionID as in flight.
// It returns [domain.ErrSubmitInFlight] while a previous submission of
// the same form and session is unfinished. done must be called once the
// submission resolves.
func (g *Guard) Begin(sessionID, formName string) (done func(), err error) {
	key := sessionID + "/" + formName

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, domain.ErrSubmitInFlight
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}

// InFlight reports whether formName of sessionID is being submitted.
func (g *Guard) InFlight(sessionID, formName string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[sessionID+"/"+formName]
	return busy
}
