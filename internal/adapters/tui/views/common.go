package views

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetResult shows err when set, otherwise msg
func (s *ViewState) SetResult(msg string, err error) {
	if err != nil {
		s.SetMessage(err.Error(), true)
		return
	}
	s.SetMessage(msg, false)
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type (
	SwitchToBoardMsg struct{}
	SwitchToHelpMsg  struct{}

	// SwitchToFormMsg opens a form over the board
	SwitchToFormMsg struct{ Form *FormModel }

	// SwitchToConfirmMsg asks before running a destructive action
	SwitchToConfirmMsg struct{ Confirm *ConfirmationModel }

	// ResultMsg reports the outcome of an action to the board view
	ResultMsg struct {
		Message string
		Err     error
	}

	// GenerateMsg asks the app to start a generation run
	GenerateMsg struct {
		Count int
		Reset bool
	}

	// CancelGenerationMsg asks the app to stop the running generation
	CancelGenerationMsg struct{}
)
