package resource

import (
	"sort"
	"time"

	"github.com/brunosprotte/messenger-server-api/pkg/chat"
)

type SessionResource struct {
	ID          string    `json:"id"`
	Identity    string    `json:"identity"`
	ConnectedAt time.Time `json:"connectedAt"`
}

type SessionListResource struct {
	Members []*SessionResource `json:"members"`
}

func NewSession(sess *chat.Session) (out *SessionResource) {
	out = &SessionResource{
		ID:          sess.ID(),
		Identity:    sess.Identity(),
		ConnectedAt: sess.ConnectedAt(),
	}

	return // out
}

func NewSessionList(sessions []*chat.Session) (out *SessionListResource) {
	out = &SessionListResource{
		Members: make([]*SessionResource, 0),
	}

	for _, elem := range sessions {
		out.Members = append(out.Members, NewSession(elem))
	}

	// Default sort by ID
	sort.Slice(out.Members, func(i, j int) bool {
		return out.Members[i].ID < out.Members[j].ID
	})

	return // out
}
