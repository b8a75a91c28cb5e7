package tui

import "github.com/charmbracelet/lipgloss"

// StyleConfig holds all customizable style colors for the result viewer.
type StyleConfig struct {
	PrimaryBlue   lipgloss.Color
	AccentBlue    lipgloss.Color
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	BorderColor   lipgloss.Color
	SuccessColor  lipgloss.Color
	FailureColor  lipgloss.Color
	ErrorLineBg   lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:   lipgloss.Color("#8AB4F8"),
		AccentBlue:    lipgloss.Color("#4285F4"),
		TextPrimary:   lipgloss.Color("#E8EAED"),
		TextSecondary: lipgloss.Color("#9AA0A6"),
		BorderColor:   lipgloss.Color("#5F6368"),
		SuccessColor:  lipgloss.Color("#34A853"),
		FailureColor:  lipgloss.Color("#EA4335"),
		ErrorLineBg:   lipgloss.Color("#2D0000"),
	}
}

// TitleStyle returns a title lipgloss style using this config
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// BadgeStyle colors the success/failure badge.
func (s *StyleConfig) BadgeStyle(success bool) lipgloss.Style {
	color := s.FailureColor
	if success {
		color = s.SuccessColor
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(color).
		Bold(true).
		Padding(0, 1)
}

// SectionStyle is used for section headings inside the viewport.
func (s *StyleConfig) SectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Bold(true)
}

// ErrorLineStyle highlights log lines containing an error indicator.
func (s *StyleConfig) ErrorLineStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.FailureColor).
		Background(s.ErrorLineBg).
		Bold(true)
}

// ContextLineStyle dims the remaining log lines.
func (s *StyleConfig) ContextLineStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary)
}

// HelpStyle returns a help text lipgloss style using this config
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// ViewportStyle frames the scrollable content.
func (s *StyleConfig) ViewportStyle(focused bool) lipgloss.Style {
	border := s.BorderColor
	if focused {
		border = s.AccentBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
