package proxylive

import (
	"math/rand"

	"github.com/corpix/uarand"
)

// userAgent represents a collection of user agent strings
type userAgent struct {
	agents []string
}

// get returns a random user agent string from the collection, or a random
// browser agent when the collection is empty
// Returns:
//   - string: A randomly selected user agent string
func (a *userAgent) get() string {
	if len(a.agents) == 0 {
		return uarand.GetRandom()
	}
	return a.agents[rand.Intn(len(a.agents))]
}
