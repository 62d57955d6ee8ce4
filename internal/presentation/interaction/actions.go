package interaction

import "github.com/penwyp/go-sales-chart/internal/core/model"

// ActionKind is what a key press asks the chart view to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionQuit
	ActionSetGranularity
	ActionToggleStatic
	ActionReload
	ActionDismissError
	ActionActivate
)

// Action is a decoded key press.
type Action struct {
	Kind        ActionKind
	Granularity model.Granularity
	// Index is the zero-based bar index for ActionActivate
	Index int
}

// ActionFor maps a key event to a view action.
//
//	d/m/y   switch granularity
//	s       toggle static data
//	r       reload
//	x, Esc  dismiss the error notice
//	1-9     activate bar 1..9
//	q, ^C   quit
func ActionFor(event KeyEvent) Action {
	if event.Type == KeyEscape {
		return Action{Kind: ActionDismissError}
	}
	if event.Type != KeyChar {
		return Action{Kind: ActionNone}
	}

	switch event.Key {
	case 'q', 'Q', keyCtrlC:
		return Action{Kind: ActionQuit}
	case 'd', 'D':
		return Action{Kind: ActionSetGranularity, Granularity: model.GranularityDay}
	case 'm', 'M':
		return Action{Kind: ActionSetGranularity, Granularity: model.GranularityMonth}
	case 'y', 'Y':
		return Action{Kind: ActionSetGranularity, Granularity: model.GranularityYear}
	case 's', 'S':
		return Action{Kind: ActionToggleStatic}
	case 'r', 'R':
		return Action{Kind: ActionReload}
	case 'x', 'X':
		return Action{Kind: ActionDismissError}
	}

	if event.Key >= '1' && event.Key <= '9' {
		return Action{Kind: ActionActivate, Index: int(event.Key - '1')}
	}
	return Action{Kind: ActionNone}
}
