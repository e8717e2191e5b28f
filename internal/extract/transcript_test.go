package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismoky07/Octroi-Credit/internal/extract"
)

const sampleTranscript = `TYPE_DOCUMENT: CIN
CONFIANCE_CLASSIFICATION: HAUTE
QUALITE_IMAGE: BONNE
INFORMATIONS_EXTRAITES:
- nom_complet: BENALI
- prenom: Youssef
- date_naissance: 12/03/1985
- numero_cin: AB123456
- adresse_complete: 12 Rue des Orangers, Casablanca
OBSERVATIONS:
- Document en bon etat`

func TestParseTranscript(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		wantType         string
		wantConfidence   string
		wantQuality      string
		wantFields       map[string]string
		wantObservations []string
	}{
		{
			name:           "well formed transcript",
			input:          sampleTranscript,
			wantType:       "CIN",
			wantConfidence: "HAUTE",
			wantQuality:    "BONNE",
			wantFields: map[string]string{
				"nom_complet":      "BENALI",
				"prenom":           "Youssef",
				"date_naissance":   "12/03/1985",
				"numero_cin":       "AB123456",
				"adresse_complete": "12 Rue des Orangers, Casablanca",
			},
			wantObservations: []string{"Document en bon etat"},
		},
		{
			name:           "empty input yields defaults",
			input:          "",
			wantType:       "INCONNU",
			wantConfidence: "FAIBLE",
			wantQuality:    "INCONNUE",
			wantFields:     map[string]string{},
		},
		{
			name:           "prose without structure yields defaults",
			input:          "Je ne peux pas analyser cette image.\nVeuillez reessayer.",
			wantType:       "INCONNU",
			wantConfidence: "FAIBLE",
			wantQuality:    "INCONNUE",
			wantFields:     map[string]string{},
		},
		{
			name: "dash lines outside a section are ignored",
			input: `- nom_complet: PERDU
TYPE_DOCUMENT: PASSEPORT
INFORMATIONS_EXTRAITES:
- numero_passeport: XK9912345`,
			wantType:       "PASSEPORT",
			wantConfidence: "FAIBLE",
			wantQuality:    "INCONNUE",
			wantFields:     map[string]string{"numero_passeport": "XK9912345"},
		},
		{
			name: "field values keep embedded colons",
			input: `TYPE_DOCUMENT: RELEVE_BANCAIRE
INFORMATIONS_EXTRAITES:
- periode: 01/01/2024 au 31/01/2024
- solde: MAD: 14 500,00`,
			wantType:       "RELEVE_BANCAIRE",
			wantConfidence: "FAIBLE",
			wantQuality:    "INCONNUE",
			wantFields: map[string]string{
				"periode": "01/01/2024 au 31/01/2024",
				"solde":   "MAD: 14 500,00",
			},
		},
		{
			name: "blank keys and values are dropped",
			input: `TYPE_DOCUMENT: CIN
INFORMATIONS_EXTRAITES:
- nom_complet:
- : AB123456
- prenom: Amina`,
			wantType:       "CIN",
			wantConfidence: "FAIBLE",
			wantQuality:    "INCONNUE",
			wantFields:     map[string]string{"prenom": "Amina"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extract.ParseTranscript(tt.input)
			assert.Equal(t, tt.wantType, got.TypeLabel)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.Equal(t, tt.wantQuality, got.ImageQuality)
			assert.Equal(t, tt.wantFields, got.Fields)
			assert.Equal(t, tt.wantObservations, got.Observations)
		})
	}
}

func TestMerge(t *testing.T) {
	normal := extract.Transcript{
		TypeLabel:    "CIN",
		Confidence:   "HAUTE",
		ImageQuality: "MOYENNE",
		Fields: map[string]string{
			"nom_complet":    "BENALI",
			"prenom":         "ILLISIBLE",
			"numero_cin":     "PARTIEL: AB12",
			"date_naissance": "INCERTAIN: 12/03/1985",
		},
	}
	recovery := extract.Transcript{
		TypeLabel: "CIN",
		Fields: map[string]string{
			"nom_complet":    "AUTRE NOM",
			"prenom":         "Youssef",
			"numero_cin":     "ILLISIBLE",
			"date_naissance": "01/01/1990",
		},
	}

	merged := extract.Merge(normal, recovery)

	// Readable normal values are never overwritten.
	assert.Equal(t, "BENALI", merged.Fields["nom_complet"])
	// Illegible and partial normal values take the readable recovery value.
	assert.Equal(t, "Youssef", merged.Fields["prenom"])
	// An unreadable recovery value never replaces anything.
	assert.Equal(t, "PARTIEL: AB12", merged.Fields["numero_cin"])
	// INCERTAIN is kept as-is: only ILLISIBLE and PARTIEL trigger the merge.
	assert.Equal(t, "INCERTAIN: 12/03/1985", merged.Fields["date_naissance"])

	// Scalars stay from the normal pass.
	assert.Equal(t, "HAUTE", merged.Confidence)
	assert.Equal(t, "MOYENNE", merged.ImageQuality)

	// The inputs are untouched.
	require.Equal(t, "ILLISIBLE", normal.Fields["prenom"])
	require.Equal(t, "ILLISIBLE", recovery.Fields["numero_cin"])
}

func TestMergeDoesNotAddRecoveryOnlyFields(t *testing.T) {
	normal := extract.Transcript{Fields: map[string]string{"prenom": "ILLISIBLE"}}
	recovery := extract.Transcript{Fields: map[string]string{
		"prenom":      "Sara",
		"nom_complet": "INVENTE",
	}}

	merged := extract.Merge(normal, recovery)
	assert.Equal(t, "Sara", merged.Fields["prenom"])
	// The normal value for a key absent in the normal pass is "", which is
	// not a sentinel, so recovery-only keys never leak in.
	_, present := merged.Fields["nom_complet"]
	assert.False(t, present)
}
