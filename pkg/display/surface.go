// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package display

// Element identifiers shared with the page.
const (
	ElementDays         = "days"
	ElementHours        = "hours"
	ElementMinutes      = "minutes"
	ElementSeconds      = "seconds"
	ElementScoreboard   = "scoreboard"
	ElementFinalPanel   = "countdown-final-message"
	ElementFinalTitle   = "finalTitle"
	ElementFinalMessage = "finalMessage"
	ElementFinalPrize   = "finalPrize"
)

// Surface is the element-addressed sink the core writes to.
// Writes to an unknown element return ErrElementNotFound and change nothing.
type Surface interface {
	SetText(id, text string) error
	SetList(id string, items []string) error
	Show(id string) error
	// Alert raises a blocking notice to the user.
	Alert(message string)
}

// Layout lists the elements a surface exposes and which start hidden.
type Layout struct {
	IDs    []string
	Hidden []string
}

// DefaultLayout is the layout of the countdown page.
func DefaultLayout() Layout {
	return Layout{
		IDs: []string{
			ElementDays,
			ElementHours,
			ElementMinutes,
			ElementSeconds,
			ElementScoreboard,
			ElementFinalPanel,
			ElementFinalTitle,
			ElementFinalMessage,
			ElementFinalPrize,
		},
		Hidden: []string{ElementFinalPanel},
	}
}

// Element is the rendered state of one element.
type Element struct {
	ID      string   `json:"id"`
	Text    string   `json:"text,omitempty"`
	Items   []string `json:"items,omitempty"`
	Visible bool     `json:"visible"`
}

// State is a full copy of a surface.
type State struct {
	Elements []Element `json:"elements"`
	Notice   string    `json:"notice,omitempty"`
}

// Patch types.
const (
	PatchText  = "text"
	PatchList  = "list"
	PatchShow  = "show"
	PatchAlert = "alert"
	PatchState = "state"
)

// Patch is a single change pushed to display clients.
type Patch struct {
	Type  string   `json:"type"`
	ID    string   `json:"id,omitempty"`
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
	State *State   `json:"state,omitempty"`
}
