// Package i18n holds the label tables for the banner text layer. Localized
// strings change content only, never geometry.
package i18n

import (
	"fmt"
	"time"
)

// DefaultLang is used whenever an unknown locale is requested.
const DefaultLang = "pt"

// Labels is the complete label set for one locale. Every locale in the table
// fills every field; a missing label is a programming error, not a runtime
// fallback.
type Labels struct {
	Members      string
	Online       string
	Founded      string
	World        string
	Description  string
	BoostedBoss  string
	NpcLocation  string
	SpecialEvent string
	GeneratedAt  string
}

var labels = map[string]Labels{
	"pt": {
		Members:      "Membros",
		Online:       "Online",
		Founded:      "Fundada em",
		World:        "Mundo",
		Description:  "Descrição",
		BoostedBoss:  "Boss do dia",
		NpcLocation:  "Rashid está em",
		SpecialEvent: "Rapid Respawn ativo!",
		GeneratedAt:  "Gerado em",
	},
	"en": {
		Members:      "Members",
		Online:       "Online",
		Founded:      "Founded",
		World:        "World",
		Description:  "Description",
		BoostedBoss:  "Boosted boss",
		NpcLocation:  "Rashid is in",
		SpecialEvent: "Rapid Respawn active!",
		GeneratedAt:  "Generated at",
	},
	"es": {
		Members:      "Miembros",
		Online:       "En línea",
		Founded:      "Fundada el",
		World:        "Mundo",
		Description:  "Descripción",
		BoostedBoss:  "Jefe del día",
		NpcLocation:  "Rashid está en",
		SpecialEvent: "¡Rapid Respawn activo!",
		GeneratedAt:  "Generado el",
	},
}

var months = map[string][12]string{
	"pt": {"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
}

// Get returns the label set for lang, falling back to the default locale.
func Get(lang string) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[DefaultLang]
}

// Supported reports whether lang has its own label table.
func Supported(lang string) bool {
	_, ok := labels[lang]
	return ok
}

// FormatDateTime renders t for the given locale. English uses
// month-day-year order, the others day-month-year.
func FormatDateTime(t time.Time, lang string) string {
	m, ok := months[lang]
	if !ok {
		m = months[DefaultLang]
		lang = DefaultLang
	}
	month := m[t.Month()-1]
	if lang == "en" {
		return fmt.Sprintf("%s %d, %d %02d:%02d UTC", month, t.Day(), t.Year(), t.Hour(), t.Minute())
	}
	return fmt.Sprintf("%d de %s de %d, %02d:%02d UTC", t.Day(), month, t.Year(), t.Hour(), t.Minute())
}
