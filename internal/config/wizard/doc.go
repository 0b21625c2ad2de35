// Package wizard provides an interactive configuration wizard for kubestrap.
//
// It uses charmbracelet/huh for form-based input collection. The main entry
// point is RunWizard, which walks the question groups and returns a
// WizardResult. BuildConfig converts the result to a config.Config, and
// WriteConfig generates the YAML output file.
package wizard
