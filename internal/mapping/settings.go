package mapping

import (
	"encoding/json"
	"fmt"
	"strings"

	"listing_brochure/internal/domain"
)

// SettingsJSON decodes agency settings and fills brand defaults.
func SettingsJSON(b []byte) (domain.AgencySettings, error) {
	var s domain.AgencySettings
	if len(b) > 0 {
		if err := json.Unmarshal(b, &s); err != nil {
			return domain.AgencySettings{}, fmt.Errorf("decode settings: %w", err)
		}
	}
	return NormalizeSettings(s), nil
}

func NormalizeSettings(s domain.AgencySettings) domain.AgencySettings {
	if !isHexColor(s.PrimaryColor) {
		s.PrimaryColor = domain.DefaultPrimaryColor
	}
	if !isHexColor(s.SecondaryColor) {
		s.SecondaryColor = domain.DefaultSecondaryColor
	}
	agents := s.Agents[:0:0]
	for _, a := range s.Agents {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		agents = append(agents, a)
	}
	s.Agents = agents
	return s
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 3 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
