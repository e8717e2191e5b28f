package report

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema freezes the wire contract of the JSON report. Downstream
// consumers (dashboards, archival) key on these fields.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["resume", "documents", "problemes_concordance", "run_id", "timestamp"],
  "properties": {
    "resume": {
      "type": "object",
      "required": ["nombre_documents", "concordance", "nombre_problemes", "score_confiance"],
      "properties": {
        "nombre_documents": {"type": "integer", "minimum": 0},
        "concordance": {"type": "boolean"},
        "nombre_problemes": {"type": "integer", "minimum": 0},
        "score_confiance": {"type": "number", "minimum": 0, "maximum": 100},
        "pdfs_traites": {"type": "integer", "minimum": 0},
        "pdfs_rejetes": {"type": "integer", "minimum": 0},
        "images_generees": {"type": "integer", "minimum": 0},
        "temps_execution": {"type": "number", "minimum": 0}
      }
    },
    "documents": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["document_type", "quality_score", "quality_tier", "extraction_mode"],
        "properties": {
          "document_type": {"type": "string"},
          "quality_score": {"type": "integer", "minimum": 0, "maximum": 100},
          "quality_tier": {"enum": ["EXCELLENT", "BON", "MOYEN", "FAIBLE"]},
          "extraction_mode": {"type": "string"}
        }
      }
    },
    "problemes_concordance": {"type": "array", "items": {"type": "string"}},
    "resume_extraction": {
      "type": "object",
      "required": ["total_documents", "documents_traites_ok", "taux_succes_global"],
      "properties": {
        "total_documents": {"type": "integer", "minimum": 0},
        "documents_traites_ok": {"type": "integer", "minimum": 0},
        "documents_excellents": {"type": "integer", "minimum": 0},
        "documents_en_recuperation": {"type": "integer", "minimum": 0},
        "documents_en_erreur": {"type": "integer", "minimum": 0},
        "taux_succes_global": {"type": "string"},
        "taux_excellence": {"type": "string"},
        "recommandations_extraction": {"type": "array", "items": {"type": "string"}}
      }
    },
    "details_extraction": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["mode_extraction", "score_qualite", "niveau_qualite"]
      }
    },
    "erreurs": {"type": "array", "items": {"type": "string"}},
    "run_id": {"type": "string", "minLength": 1},
    "timestamp": {"type": "string"}
  }
}`

var compiledSchema = jsonschema.MustCompileString("rapport_analyse.schema.json", documentSchema)

// ValidateDocument checks the document against the frozen report schema.
func ValidateDocument(doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return compiledSchema.Validate(v)
}

// ValidateJSON checks raw report bytes against the schema; used when reading
// back persisted reports.
func ValidateJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return compiledSchema.Validate(v)
}
