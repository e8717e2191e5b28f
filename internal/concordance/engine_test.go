package concordance_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/concordance"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

func bundleOf(records ...entity.DocumentRecord) entity.CaseBundle {
	bundle := make(entity.CaseBundle, len(records))
	for _, rec := range records {
		bundle[rec.SourcePath] = rec
	}
	return bundle
}

func TestAnalyzeTriviallyConcordant(t *testing.T) {
	engine := concordance.NewEngine(nil)

	for _, bundle := range []entity.CaseBundle{
		nil,
		{},
		bundleOf(entity.DocumentRecord{SourcePath: "a.png", FullName: "BENALI"}),
	} {
		result := engine.Analyze(bundle)
		assert.True(t, result.IsConcordant)
		assert.Empty(t, result.Discrepancies)
	}
}

func TestAnalyzeCaseAndAccentDifferencesConcord(t *testing.T) {
	// Scenario: same person, OCR casing and accent noise only.
	engine := concordance.NewEngine(nil)
	result := engine.Analyze(bundleOf(
		entity.DocumentRecord{
			SourcePath: "cin.png", Type: constants.NationalID,
			FullName: "Ahmed Bénani", FirstName: "Ahmed",
		},
		entity.DocumentRecord{
			SourcePath: "passeport.png", Type: constants.Passport,
			FullName: "ahmed benani", FirstName: "ahmed",
		},
	))

	assert.True(t, result.IsConcordant)
	assert.Empty(t, result.Discrepancies)
}

func TestAnalyzeNameMismatch(t *testing.T) {
	engine := concordance.NewEngine(nil)
	result := engine.Analyze(bundleOf(
		entity.DocumentRecord{SourcePath: "/d/cin.png", Type: constants.NationalID, FullName: "Ahmed Benani"},
		entity.DocumentRecord{SourcePath: "/d/releve.png", Type: constants.BankStatement, FullName: "Mohamed Alami"},
	))

	assert.False(t, result.IsConcordant)
	require.Len(t, result.Discrepancies, 1)
	d := result.Discrepancies[0]
	assert.Contains(t, d, "Discordance des noms")
	assert.Contains(t, d, "Ahmed Benani (cin.png)")
	assert.Contains(t, d, "Mohamed Alami (releve.png)")
	assert.Contains(t, result.Recommendations, "Discordances detectees - verification manuelle recommandee")
}

func TestAnalyzeSentinelValuesCarryNoSignal(t *testing.T) {
	// A field reading ILLISIBLE is treated as absent, so a readable value on
	// only one other record cannot form a discrepancy group.
	engine := concordance.NewEngine(nil)
	result := engine.Analyze(bundleOf(
		entity.DocumentRecord{SourcePath: "cin.png", FullName: "ILLISIBLE"},
		entity.DocumentRecord{SourcePath: "releve.png", FullName: "Ahmed Benani"},
	))

	assert.True(t, result.IsConcordant)
	assert.Equal(t, 1, result.Coverage.WithFullName)
}

func TestAnalyzeNationalIDFormattingVariants(t *testing.T) {
	engine := concordance.NewEngine(nil)
	result := engine.Analyze(bundleOf(
		entity.DocumentRecord{
			SourcePath: "cin.png", Type: constants.NationalID, DocumentNumber: "AB 123-456",
		},
		entity.DocumentRecord{
			SourcePath: "bulletin.png", Type: constants.Payslip,
			ExtraFields: map[string]string{"numero_cin": "AB123456"},
		},
	))

	assert.True(t, result.IsConcordant)
	assert.Equal(t, 2, result.Coverage.WithNationalID)
}

func TestAnalyzeAddressClustering(t *testing.T) {
	sameAddress := []entity.DocumentRecord{
		{SourcePath: "cin.png", Address: "12 Rue des Orangers, Quartier Maarif, Casablanca"},
		{SourcePath: "facture.png", Address: "12 rue des orangers maarif casablanca"},
	}
	t.Run("fuzzy-equal addresses form one cluster", func(t *testing.T) {
		result := concordance.NewEngine(nil).Analyze(bundleOf(sameAddress...))
		assert.True(t, result.IsConcordant)
	})

	t.Run("a distinct address opens a second cluster", func(t *testing.T) {
		result := concordance.NewEngine(nil).Analyze(bundleOf(
			sameAddress[0],
			sameAddress[1],
			entity.DocumentRecord{SourcePath: "releve.png", Address: "45 Avenue Hassan II, Rabat"},
		))
		assert.False(t, result.IsConcordant)
		require.Len(t, result.Discrepancies, 1)
		assert.Contains(t, result.Discrepancies[0], "2 groupes differents")
	})
}

func TestAnalyzeTemporalSpan(t *testing.T) {
	tests := []struct {
		name     string
		dates    []string
		wantDays string
		wantHit  bool
	}{
		{"212 day span flagged", []string{"01/01/2024", "01/08/2024"}, "213 jours", true},
		{"14 day span fine", []string{"01/01/2024", "15/01/2024"}, "", false},
		{"unparseable dates ignored", []string{"01/01/2024", "ILLISIBLE", "janvier 2024"}, "", false},
		{"mixed formats still compare", []string{"2024-01-01", "01.08.2024"}, "213 jours", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []entity.DocumentRecord
			for i, d := range tt.dates {
				records = append(records, entity.DocumentRecord{
					SourcePath: fmt.Sprintf("doc%d.png", i),
					IssueDate:  d,
				})
			}
			result := concordance.NewEngine(nil).Analyze(bundleOf(records...))

			var temporal []string
			for _, d := range result.Discrepancies {
				if strings.Contains(d, "dates d'emission") {
					temporal = append(temporal, d)
				}
			}
			if tt.wantHit {
				require.Len(t, temporal, 1)
				assert.Contains(t, temporal[0], tt.wantDays)
			} else {
				assert.Empty(t, temporal)
			}
		})
	}
}

func TestAnalyzeConfidenceScore(t *testing.T) {
	t.Run("full coverage with no discrepancies caps at 100", func(t *testing.T) {
		result := concordance.NewEngine(nil).Analyze(bundleOf(
			entity.DocumentRecord{
				SourcePath: "cin.png", Type: constants.NationalID,
				FullName: "Ahmed Benani", DocumentNumber: "AB123456",
				Address: "12 Rue des Orangers, Casablanca",
			},
			entity.DocumentRecord{
				SourcePath: "facture.png", Type: constants.UtilityBill,
				FullName: "Ahmed Benani",
				Address:  "12 rue des orangers casablanca",
			},
		))
		// 100 + 5 + 10 + 5 clamps back down.
		assert.Equal(t, 100.0, result.ConfidenceScore)
		assert.True(t, result.IsConcordant)
	})

	t.Run("discrepancies drag the score down but never below zero", func(t *testing.T) {
		result := concordance.NewEngine(nil).Analyze(bundleOf(
			entity.DocumentRecord{
				SourcePath: "a.png", FullName: "Ahmed Benani", FirstName: "Ahmed",
				BirthDate: "01/01/1980", Address: "Rue A, Casablanca", IssueDate: "01/01/2020",
				ExtraFields: map[string]string{"telephone": "0611111111", "entreprise": "Alpha SARL"},
			},
			entity.DocumentRecord{
				SourcePath: "b.png", FullName: "Mohamed Alami", FirstName: "Mohamed",
				BirthDate: "02/02/1990", Address: "Avenue B, Rabat", IssueDate: "01/01/2024",
				ExtraFields: map[string]string{"telephone": "0622222222", "entreprise": "Beta SA"},
			},
		))

		// 7 discrepancies (names, first names, birth dates, addresses,
		// phones, employers, temporal) at 15 each, plus the two-name and
		// two-address bonuses: 100 - 105 + 5 + 5 = 5.
		require.Len(t, result.Discrepancies, 7)
		assert.Equal(t, 5.0, result.ConfidenceScore)
		assert.GreaterOrEqual(t, result.ConfidenceScore, 0.0)
		assert.Contains(t, result.Recommendations, "Score de confiance faible - revalider les documents")
	})
}

func TestAnalyzeVerdictMatchesDiscrepancyList(t *testing.T) {
	bundles := []entity.CaseBundle{
		bundleOf(
			entity.DocumentRecord{SourcePath: "a.png", FullName: "Ahmed Benani"},
			entity.DocumentRecord{SourcePath: "b.png", FullName: "Ahmed Benani"},
		),
		bundleOf(
			entity.DocumentRecord{SourcePath: "a.png", FullName: "Ahmed Benani"},
			entity.DocumentRecord{SourcePath: "b.png", FullName: "Mohamed Alami"},
		),
		bundleOf(entity.DocumentRecord{SourcePath: "solo.png"}),
	}
	for _, bundle := range bundles {
		result := concordance.NewEngine(nil).Analyze(bundle)
		assert.Equal(t, len(result.Discrepancies) == 0, result.IsConcordant)
	}
}

func TestAnalyzeRecommendationsCoverageRules(t *testing.T) {
	result := concordance.NewEngine(nil).Analyze(bundleOf(
		entity.DocumentRecord{SourcePath: "facture.png", Type: constants.UtilityBill, Address: "Rue A"},
		entity.DocumentRecord{SourcePath: "releve.png", Type: constants.BankStatement},
	))

	assert.Contains(t, result.Recommendations,
		"Aucun numero CIN detecte - verifier la qualite de l'OCR sur la CIN")
	assert.Contains(t, result.Recommendations,
		"Peu de documents contiennent le nom - ameliorer l'extraction")
}

func TestAnalyzeTypeCounts(t *testing.T) {
	result := concordance.NewEngine(nil).Analyze(bundleOf(
		entity.DocumentRecord{SourcePath: "a.png", Type: constants.NationalID},
		entity.DocumentRecord{SourcePath: "b.png", Type: constants.UtilityBill},
		entity.DocumentRecord{SourcePath: "c.png", Type: constants.UtilityBill},
	))
	assert.Equal(t, map[string]int{
		"NATIONAL_ID":  1,
		"UTILITY_BILL": 2,
	}, result.TypeCounts)
	assert.Equal(t, 3, result.TotalDocuments)
}
