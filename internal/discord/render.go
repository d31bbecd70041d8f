package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/leaderboard"
)

// Custom ID prefixes for mirror components. The message id follows the colon.
const (
	ComponentSelect = "tk_select"
	ComponentPlus   = "tk_plus"
	ComponentMinus  = "tk_minus"

	componentSep = ":"
)

// Embed presentation
const (
	EmbedColor        = 0x8b5cf6
	EmbedFooter       = "Live via teamkill.club"
	EmbedFallbackName = "Teamkill.club"
	EmbedEmpty        = "Noch keine Einträge."
	LeaderMarker      = "👑 "

	SelectPlaceholder   = "Spieler auswählen…"
	SelectFallbackLabel = "Spieler"
	SelectEmptyLabel    = "Keine Spieler"
	SelectEmptyDesc     = "Bitte erst Spieler anlegen"
	SelectCurrentDesc   = "Aktuell: %d"

	// Discord limits
	MaxSelectOptions = 25
	MaxOptionLabel   = 80
)

// Renderer turns a leaderboard into message embeds and components.
type Renderer struct {
	ranker *leaderboard.Ranker
	now    func() time.Time
}

// NewRenderer creates a renderer ordering names with ranker.
func NewRenderer(ranker *leaderboard.Ranker) *Renderer {
	return &Renderer{ranker: ranker, now: time.Now}
}

// Embed renders the ranked list.
func (r *Renderer) Embed(board *domain.Leaderboard) *discordgo.MessageEmbed {
	title := EmbedFallbackName
	var people []domain.Person
	if board != nil {
		if board.Name != "" {
			title = board.Name
		}
		people = board.People
	}

	lines := make([]string, 0, len(people))
	for _, p := range r.ranker.Rank(people) {
		marker := ""
		if p.Leader {
			marker = LeaderMarker
		}
		lines = append(lines, fmt.Sprintf("%s**%s** — %d", marker, p.Name, p.Count))
	}

	description := EmbedEmpty
	if len(lines) > 0 {
		description = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: EmbedFooter},
		Timestamp:   r.now().UTC().Format(time.RFC3339),
	}
}

// Components renders the select menu and vote buttons for messageID.
// A mirror without counting rights gets no components at all.
func (r *Renderer) Components(board *domain.Leaderboard, messageID string, canCount bool) []discordgo.MessageComponent {
	if !canCount || messageID == "" {
		return []discordgo.MessageComponent{}
	}

	var people []domain.Person
	if board != nil {
		people = board.People
	}
	ranked := r.ranker.Rank(people)
	if len(ranked) > MaxSelectOptions {
		ranked = ranked[:MaxSelectOptions]
	}

	options := make([]discordgo.SelectMenuOption, 0, len(ranked))
	for _, p := range ranked {
		options = append(options, discordgo.SelectMenuOption{
			Label:       optionLabel(p.Name),
			Value:       p.ID,
			Description: fmt.Sprintf(SelectCurrentDesc, p.Count),
		})
	}
	if len(options) == 0 {
		options = append(options, discordgo.SelectMenuOption{
			Label:       SelectEmptyLabel,
			Value:       domain.NoSelectionValue,
			Description: SelectEmptyDesc,
			Default:     true,
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    componentID(ComponentSelect, messageID),
				Placeholder: SelectPlaceholder,
				Options:     options,
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    domain.DeltaIncrement.Label(),
				Style:    discordgo.SuccessButton,
				CustomID: componentID(ComponentPlus, messageID),
			},
			discordgo.Button{
				Label:    domain.DeltaDecrement.Label(),
				Style:    discordgo.DangerButton,
				CustomID: componentID(ComponentMinus, messageID),
			},
		}},
	}
}

func optionLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return SelectFallbackLabel
	}
	runes := []rune(name)
	if len(runes) > MaxOptionLabel {
		return string(runes[:MaxOptionLabel])
	}
	return name
}

func componentID(prefix, messageID string) string {
	return prefix + componentSep + messageID
}

// parseComponentID splits a custom id into prefix and message id.
func parseComponentID(customID string) (prefix, messageID string, ok bool) {
	prefix, messageID, ok = strings.Cut(customID, componentSep)
	if !ok || prefix == "" || messageID == "" {
		return "", "", false
	}
	if _, err := strconv.ParseUint(messageID, 10, 64); err != nil {
		return "", "", false
	}
	return prefix, messageID, true
}
