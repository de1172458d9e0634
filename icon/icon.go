// Package icon provides a multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs or plain ASCII depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/zantaku/Zantaku-sub000/key"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Play
	Pause
	Loading
	Ended
	Chapter
)

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Success: {emoji: "✅", nerd: "", plain: "+"},
	Fail:    {emoji: "❌", nerd: "", plain: "x"},
	Play:    {emoji: "▶️", nerd: "", plain: ">"},
	Pause:   {emoji: "⏸️", nerd: "", plain: "||"},
	Loading: {emoji: "⏳", nerd: "", plain: "..."},
	Ended:   {emoji: "⏹️", nerd: "", plain: "[]"},
	Chapter: {emoji: "📖", nerd: "", plain: "#"},
}

// Get returns the rendered string for a specified Icon identifier.
func Get(i Icon) string {
	return icons[i].get()
}
