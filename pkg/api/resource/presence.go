package resource

type PresenceResource struct {
	Identity string `json:"identity"`
	Online   bool   `json:"online"`
}

func NewPresence(identity string, online bool) (out *PresenceResource) {
	out = &PresenceResource{
		Identity: identity,
		Online:   online,
	}

	return // out
}
