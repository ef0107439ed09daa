package utils

import (
	"path/filepath"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

var defaultMessages = []*i18n.Message{
	{ID: "advice.emergency", Other: "EMERGENCY: {{.Condition}} occurred {{.Count}}x this week"},
	{ID: "advice.approaching", Other: "Caution: {{.Condition}} reported {{.Count}}x this week, a doctor consultation is required at {{.Limit}}"},
	{ID: "advice.medication", Other: "Medication advised"},
	{ID: "advice.home_care", Other: "Home care recommended"},
}

var bundle = newBundle()

func newBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	if err := b.AddMessages(language.English, defaultMessages...); err != nil {
		panic(err)
	}
	return b
}

// InitI18NBundle resets the bundle to the built-in English messages and loads
// every yaml message file of dir on top of them.
func InitI18NBundle(dir string) error {
	b := newBundle()
	if dir != "" {
		files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return err
		}
		for _, f := range files {
			if _, err := b.LoadMessageFile(f); err != nil {
				return err
			}
			log.WithField("prefix", "i18n").Debugf("loaded message file %s", f)
		}
	}
	bundle = b
	return nil
}

func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, langs...)
}

// Localize renders a message for the given Accept-Language value. The message
// id is returned when no translation exists at all.
func Localize(acceptLanguage, messageID string, data map[string]interface{}) string {
	msg, err := NewLocalizer(acceptLanguage).Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return messageID
	}
	return msg
}
