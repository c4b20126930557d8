package settings

import (
	"crypto/subtle"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/judyrop/storefront-admin/models"
	"github.com/sirupsen/logrus"
)

const MinPasswordLength = 4

type Store interface {
	Settings() models.Settings
	SetWhatsAppNumber(string) error
	SetAdminPassword(string) error
}

// Form mirrors the two input fields of the settings screen.
type Form struct {
	ContactNumber string `json:"contactNumber"`
	NewPassword   string `json:"-"`
}

// Workflow is the only writer of the contact number and the admin password.
type Workflow struct {
	mu    sync.Mutex
	store Store
	log   *logrus.Logger
	form  Form
}

func New(store Store, logger *logrus.Logger) *Workflow {
	return &Workflow{
		store: store,
		log:   logger,
		form:  Form{ContactNumber: store.Settings().WhatsAppNumber},
	}
}

func (w *Workflow) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// UpdateContactNumber stores value as is; any text is accepted.
func (w *Workflow) UpdateContactNumber(value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.ContactNumber = value
	if err := w.store.SetWhatsAppNumber(value); err != nil {
		w.log.Errorf("Failed to update contact number: %v", err)
		return err
	}
	w.log.Info("Contact number updated")
	return nil
}

// UpdatePassword replaces the admin password and clears the input on success. Values
// shorter than MinPasswordLength characters are rejected and left in the input.
func (w *Workflow) UpdatePassword(value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.NewPassword = value
	if utf8.RuneCountInString(value) < MinPasswordLength {
		w.log.Warn("Rejected admin password shorter than minimum length")
		return fmt.Errorf("%w: password must have at least %d characters", models.ErrValidation, MinPasswordLength)
	}
	if err := w.store.SetAdminPassword(value); err != nil {
		w.log.Errorf("Failed to update admin password: %v", err)
		return err
	}
	w.form.NewPassword = ""
	w.log.Info("Admin password changed")
	return nil
}

// Authenticate is the gate in front of every admin operation.
func (w *Workflow) Authenticate(candidate string) bool {
	stored := w.store.Settings().AdminPassword
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}

// Reset discards unsaved input, reloading the contact field from the store.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = Form{ContactNumber: w.store.Settings().WhatsAppNumber}
}
