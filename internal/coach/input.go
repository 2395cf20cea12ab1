package coach

// Input is a user action handled by Session.Dispatch.
// The set of implementations is closed: Prompt, RoadmapFlow, FreeTextTrigger, RawText and ShowMenu.
type Input interface {
	isInput()
}

// Prompt is a predefined query sent verbatim.
type Prompt struct {
	Text string
}

// RoadmapFlow starts the two-step roadmap dialogue.
type RoadmapFlow struct{}

// FreeTextTrigger switches to free input without sending anything.
type FreeTextTrigger struct{}

// RawText is text typed by the user.
type RawText struct {
	Text string
}

// ShowMenu returns from the input box to the menu.
type ShowMenu struct{}

func (Prompt) isInput()          {}
func (RoadmapFlow) isInput()     {}
func (FreeTextTrigger) isInput() {}
func (RawText) isInput()         {}
func (ShowMenu) isInput()        {}

// MenuOption is an entry of the canned menu.
type MenuOption struct {
	Label string
	Input Input
}

const (
	PromptResumeAnalysis = "Please analyze my resume and give me constructive feedback."
	PromptCareerPivot    = "I want to pivot to this role. What steps should I take?"

	// CloseLabel is the label of the action ending the session.
	CloseLabel = "No, I'm done. Thanks!"
)

// Menu returns the canned menu in display order.
func Menu() []MenuOption {
	return []MenuOption{
		{Label: "Resume Analysis", Input: Prompt{Text: PromptResumeAnalysis}},
		{Label: "Career Pivot Advice", Input: Prompt{Text: PromptCareerPivot}},
		{Label: "Generate Skill Roadmap", Input: RoadmapFlow{}},
		{Label: "Ask a specific question...", Input: FreeTextTrigger{}},
	}
}
