// ABOUTME: Credit request form as a bubbletea model
// ABOUTME: Collects a positive credit amount and emits it to the app

package forms

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/tui/styles"
)

// CreditRequestMsg is sent when the credit request form is completed
type CreditRequestMsg struct {
	Amount int
}

// CreditRequest is the credit top-up form model
type CreditRequest struct {
	form   *huh.Form
	amount string
}

// NewCreditRequest creates the form
func NewCreditRequest() *CreditRequest {
	r := &CreditRequest{}
	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Credits to request").
				Placeholder("10").
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a valid credit amount")
					}
					return nil
				}).
				Value(&r.amount),
		),
	).WithTheme(huh.ThemeBase())
	return r
}

// Init implements tea.Model
func (r *CreditRequest) Init() tea.Cmd {
	return r.form.Init()
}

// Update implements tea.Model
func (r *CreditRequest) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return r, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		amount, _ := strconv.Atoi(r.amount)
		return r, func() tea.Msg { return CreditRequestMsg{Amount: amount} }
	}

	return r, cmd
}

// View implements tea.Model
func (r *CreditRequest) View() string {
	return styles.Title.Render("Request Credits") + "\n" + r.form.View()
}
