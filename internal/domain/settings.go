package domain

const (
	DefaultPrimaryColor   = "#1f3a5f"
	DefaultSecondaryColor = "#c9a227"
)

// AgencySettings is the singleton-per-tenant agency record.
type AgencySettings struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Address        string            `json:"address"`
	Website        string            `json:"website"`
	PrimaryColor   string            `json:"primaryColor"`
	SecondaryColor string            `json:"secondaryColor"`
	LogoURL        string            `json:"logoUrl"`
	IconOverrides  map[string]string `json:"iconOverrides,omitempty"` // key-fact key -> icon url
	Social         SocialLinks       `json:"social"`
	Agents         []Agent           `json:"agents"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type Agent struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

// ContactLine is the one-line agency contact summary used in brochure headers.
func (s AgencySettings) ContactLine() string {
	out := ""
	for _, part := range []string{s.Phone, s.Email, s.Website} {
		if part == "" {
			continue
		}
		if out != "" {
			out += "  |  "
		}
		out += part
	}
	return out
}

// AgentFor picks the agent assigned to a property, falling back to the first agent.
func (s AgencySettings) AgentFor(agentID *string) (Agent, bool) {
	if agentID != nil {
		for _, a := range s.Agents {
			if a.ID == *agentID {
				return a, true
			}
		}
	}
	if len(s.Agents) > 0 {
		return s.Agents[0], true
	}
	return Agent{}, false
}
