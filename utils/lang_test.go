package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizeDefaults(t *testing.T) {
	require.NoError(t, InitI18NBundle(""))

	assert.Equal(t, "Medication advised", Localize("", "advice.medication", nil))
	assert.Equal(t, "EMERGENCY: Muscle Strain occurred 4x this week", Localize("en-US", "advice.emergency", map[string]interface{}{
		"Condition": "Muscle Strain",
		"Count":     4,
	}))
	assert.Equal(t, "Home care recommended", Localize("fr-FR", "advice.home_care", nil))
	assert.Equal(t, "advice.unknown", Localize("", "advice.unknown", nil))
}

func TestLocalizeFromMessageFiles(t *testing.T) {
	require.NoError(t, InitI18NBundle("../i18n"))
	defer func() { _ = InitI18NBundle("") }()

	assert.Equal(t, "建議用藥", Localize("zh-TW,zh;q=0.9", "advice.medication", nil))
	assert.Equal(t, "Medication advised", Localize("en", "advice.medication", nil))
}

func TestInitI18NBundleMissingDir(t *testing.T) {
	assert.NoError(t, InitI18NBundle("/nonexistent"))
	assert.Equal(t, "Medication advised", Localize("", "advice.medication", nil))
}
