// file: internal/models/condition_test.go
// version: 1.0.0
// guid: 3f8c1a27-6d4e-4b95-a0f2-7e9b5c3d1a48

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemClass(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mental health", "sys-mental-health"},
		{"Mental disorders", "sys-mental-health"},
		{"Neurological", "sys-neurological"},
		{"neuro", "sys-neurological"},
		{"Musculoskeletal", "sys-musculoskeletal"},
		{"Orthopedic", "sys-musculoskeletal"},
		{"Ear", "sys-ear"},
		{"  EAR  ", "sys-ear"},
		{"Auditory system", "sys-ear"},
		{"Ears", "sys-ears"},
		{"Respiratory", "sys-respiratory"},
		{"Cardiovascular", "sys-cardiovascular"},
		{"Heart", "sys-cardiovascular"},
		{"Skin / Dermatology", "sys-skin-dermatology"},
		{"Genitourinary", "sys-genitourinary"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SystemClass(tt.in))
		})
	}
}

func TestShortSection(t *testing.T) {
	tests := []struct {
		section string
		want    string
	}{
		{"38 CFR § 4.124a", "4.124a"},
		{"38 cfr § 4.71a", "4.71a"},
		{"38CFR§4.87", "4.87"},
		{"38  CFR  §  4.130", "4.130"},
		{"4.97", "4.97"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			assert.Equal(t, tt.want, Citation{Section: tt.section}.ShortSection())
		})
	}
}

func TestCitationSummary(t *testing.T) {
	c := &Condition{CFR: []Citation{
		{Section: "38 CFR § 4.124a", DiagnosticCode: "8520", Title: "Neurological conditions"},
		{Section: "38 CFR § 4.71a", Title: "Musculoskeletal system"},
		{Section: "38 CFR § 4.87", DiagnosticCode: "6260"},
	}}

	tests := []struct {
		name  string
		limit int
		want  string
	}{
		{"one", 1, "§ 4.124a • DC 8520 • Neurological conditions"},
		{"two skips missing code", 2, "§ 4.124a • DC 8520 • Neurological conditions | § 4.71a • Musculoskeletal system"},
		{"zero means all", 0, "§ 4.124a • DC 8520 • Neurological conditions | § 4.71a • Musculoskeletal system | § 4.87 • DC 6260"},
		{"limit above length", 9, "§ 4.124a • DC 8520 • Neurological conditions | § 4.71a • Musculoskeletal system | § 4.87 • DC 6260"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CitationSummary(tt.limit))
		})
	}

	assert.Empty(t, (&Condition{}).CitationSummary(2))
	bare := &Condition{CFR: []Citation{{Section: "Appendix B"}}}
	assert.Equal(t, "§ Appendix B", bare.CitationSummary(1))
}

func TestPrimaryCitation(t *testing.T) {
	assert.Nil(t, (&Condition{}).PrimaryCitation())
	assert.Empty(t, (&Condition{}).PrimaryDiagnosticCode())

	c := &Condition{CFR: []Citation{{DiagnosticCode: "8100"}, {DiagnosticCode: "8520"}}}
	assert.Equal(t, "8100", c.PrimaryDiagnosticCode())
}

func TestRatingLogicKind(t *testing.T) {
	var nilLogic *RatingLogic
	assert.Equal(t, RatingSummary, nilLogic.Kind())
	assert.Equal(t, RatingThresholds, (&RatingLogic{Type: RatingThresholds, Thresholds: []Threshold{{Degrees: 45, RatingPercent: 10}}}).Kind())
	assert.Equal(t, RatingSummary, (&RatingLogic{Type: RatingThresholds}).Kind())
	assert.Equal(t, RatingSeverityLadder, (&RatingLogic{Type: RatingSeverityLadder, Levels: []SeverityLevel{{Level: "mild", RatingPercent: 10}}}).Kind())
	assert.Equal(t, RatingSummary, (&RatingLogic{Type: "other", Summary: "see text"}).Kind())
}
