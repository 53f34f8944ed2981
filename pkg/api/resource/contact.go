package resource

import "sort"

type ContactListResource struct {
	Members []string `json:"members"`
}

func NewContactList(contacts []string) (out *ContactListResource) {
	out = &ContactListResource{
		Members: make([]string, 0, len(contacts)),
	}

	out.Members = append(out.Members, contacts...)
	sort.Strings(out.Members)

	return // out
}
