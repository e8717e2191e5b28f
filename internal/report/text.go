package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

// RenderText produces the human-readable analysis report: executive summary,
// per-document details, concordance analysis, then the final recommendation.
func RenderText(state entity.PipelineState, now time.Time) string {
	var b strings.Builder

	b.WriteString("RAPPORT D'ANALYSE DE DOCUMENTS\n")
	b.WriteString("============================\n\n")

	writeSummary(&b, state)
	writeDocumentDetails(&b, state)
	writeConcordance(&b, state)
	writeRecommendations(&b, state)
	writeErrors(&b, state)

	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	b.WriteString("Rapport genere automatiquement par le systeme d'analyse de documents\n")
	fmt.Fprintf(&b, "Date de generation: %s\n", now.Format("2006-01-02 15:04:05"))

	return b.String()
}

func writeSummary(b *strings.Builder, state entity.PipelineState) {
	b.WriteString("RESUME EXECUTIF\n")
	b.WriteString(strings.Repeat("-", 15) + "\n")
	fmt.Fprintf(b, "Nombre de documents analyses: %d\n", state.AnalyzedCount)

	if s := state.Extraction; s != nil && s.TotalDocuments > 0 {
		fmt.Fprintf(b, "Documents traites avec succes: %d\n", s.DocumentsOK)
		fmt.Fprintf(b, "Taux de succes global: %s\n", s.SuccessRate)
		if s.InRecovery > 0 {
			fmt.Fprintf(b, "Documents en mode recuperation: %d\n", s.InRecovery)
		}
		for _, rec := range s.Recommendations {
			fmt.Fprintf(b, "- %s\n", rec)
		}
	}

	if c := state.Concordance; c != nil {
		fmt.Fprintf(b, "Concordance des informations: %s\n", ouiNon(c.IsConcordant))
		if !c.IsConcordant {
			fmt.Fprintf(b, "Nombre de problemes detectes: %d\n", len(c.Discrepancies))
		}
		fmt.Fprintf(b, "Score de confiance: %.1f/100\n", c.ConfidenceScore)

		b.WriteString("\nStatistiques d'extraction:\n")
		fmt.Fprintf(b, "- Documents avec nom: %d\n", c.Coverage.WithFullName)
		fmt.Fprintf(b, "- Documents avec prenom: %d\n", c.Coverage.WithFirstName)
		fmt.Fprintf(b, "- Documents avec adresse: %d\n", c.Coverage.WithAddress)
		fmt.Fprintf(b, "- Documents avec CIN: %d\n", c.Coverage.WithNationalID)
	}

	fmt.Fprintf(b, "PDFs traites: %d\n", state.LoadedCount-state.RejectedCount)
	fmt.Fprintf(b, "PDFs rejetes: %d\n", state.RejectedCount)
	fmt.Fprintf(b, "Images generees: %d\n", state.ImageCount)
	if state.Duration > 0 {
		fmt.Fprintf(b, "Temps d'execution: %.2f secondes\n", state.Duration.Seconds())
	}
	b.WriteString("\n")
}

func writeDocumentDetails(b *strings.Builder, state entity.PipelineState) {
	b.WriteString("DETAILS DES DOCUMENTS\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")

	for _, path := range sortedPaths(state.Records) {
		rec := state.Records[path]
		fmt.Fprintf(b, "\nDocument: %s\n", filepath.Base(path))
		fmt.Fprintf(b, "   Type: %s\n", rec.Type)

		writeIf(b, "   Nom: %s\n", rec.FullName)
		writeIf(b, "   Prenom: %s\n", rec.FirstName)
		writeIf(b, "   Date de naissance: %s\n", rec.BirthDate)
		writeIf(b, "   Adresse: %s\n", rec.Address)
		writeIf(b, "   Numero: %s\n", rec.DocumentNumber)
		writeIf(b, "   Date d'emission: %s\n", rec.IssueDate)
		writeIf(b, "   Date d'expiration: %s\n", rec.ExpiryDate)

		if rec.ImageQuality != "" || rec.TypeConfidence != "" {
			b.WriteString("   Qualite d'extraction:\n")
			writeIf(b, "     - Qualite image: %s\n", rec.ImageQuality)
			writeIf(b, "     - Confiance classification: %s\n", string(rec.TypeConfidence))
			fmt.Fprintf(b, "     - Score: %d/100 (%s)\n", rec.QualityScore, rec.QualityTier)
		}

		if len(rec.ExtraFields) > 0 {
			b.WriteString("   Autres informations:\n")
			for _, key := range sortedKeys(rec.ExtraFields) {
				fmt.Fprintf(b, "     - %s: %s\n", key, rec.ExtraFields[key])
			}
		}
	}
}

func writeConcordance(b *strings.Builder, state entity.PipelineState) {
	b.WriteString("\nANALYSE DE CONCORDANCE\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")

	c := state.Concordance
	if c == nil || c.IsConcordant {
		b.WriteString("Toutes les informations concordent entre les documents.\n")
		b.WriteString("Les donnees personnelles sont coherentes a travers tous les documents analyses.\n")
	} else {
		b.WriteString("Des problemes de concordance ont ete detectes:\n\n")
		for i, problem := range c.Discrepancies {
			fmt.Fprintf(b, "%d. %s\n", i+1, problem)
		}
	}

	if c != nil && len(c.Recommendations) > 0 {
		b.WriteString("\nRecommandations d'amelioration:\n")
		for _, rec := range c.Recommendations {
			fmt.Fprintf(b, "- %s\n", rec)
		}
	}
}

func writeRecommendations(b *strings.Builder, state entity.PipelineState) {
	b.WriteString("\nRECOMMANDATIONS\n")
	b.WriteString(strings.Repeat("-", 15) + "\n")

	c := state.Concordance
	if c == nil || c.IsConcordant {
		score := 100.0
		if c != nil {
			score = c.ConfidenceScore
		}
		switch {
		case score >= 90:
			b.WriteString("DOSSIER EXCELLENT\n")
			b.WriteString("Le dossier est de tres haute qualite. Traitement automatique recommande.\n")
		case score >= 70:
			b.WriteString("DOSSIER VALIDE\n")
			b.WriteString("Le dossier est complet et coherent. Tous les documents peuvent etre utilises en confiance.\n")
		default:
			b.WriteString("DOSSIER VALIDE AVEC RESERVES\n")
			b.WriteString("Le dossier est coherent mais la qualite d'extraction peut etre amelioree.\n")
		}
	} else {
		b.WriteString("VERIFICATION MANUELLE REQUISE\n")
		b.WriteString("Des incoherences ont ete detectees. Il est recommande de:\n")
		b.WriteString("- Verifier manuellement les documents presentant des discordances\n")
		b.WriteString("- Demander des documents de remplacement si necessaire\n")
		b.WriteString("- Contacter le demandeur pour clarification\n")
	}
}

func writeErrors(b *strings.Builder, state entity.PipelineState) {
	if len(state.Errors) == 0 {
		return
	}
	b.WriteString("\nERREURS TECHNIQUES RENCONTREES\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, e := range state.Errors {
		fmt.Fprintf(b, "- %s\n", e)
	}
}

func writeIf(b *strings.Builder, format, value string) {
	if value != "" {
		fmt.Fprintf(b, format, value)
	}
}

func ouiNon(v bool) string {
	if v {
		return "OUI"
	}
	return "NON"
}

func sortedPaths(bundle entity.CaseBundle) []string {
	paths := make([]string, 0, len(bundle))
	for path := range bundle {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
