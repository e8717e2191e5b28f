package constants

// PipelineStatus is the canonical status tag carried on PipelineState.
type PipelineStatus string

// Stable values, in stage order. ERROR is terminal and only reachable from
// INITIALIZED (malformed root folder); every other failure is recorded on the
// state and the pipeline still advances.
const (
	StatusInitialized PipelineStatus = "INITIALIZED"
	StatusLoading     PipelineStatus = "LOADING"
	StatusValidating  PipelineStatus = "VALIDATING"
	StatusRasterizing PipelineStatus = "RASTERIZING"
	StatusExtracting  PipelineStatus = "EXTRACTING"
	StatusConcordance PipelineStatus = "CONCORDANCE_CHECK"
	StatusReporting   PipelineStatus = "REPORTING"
	StatusDone        PipelineStatus = "DONE"
	StatusError       PipelineStatus = "ERROR"
)

// ExtractionMode tags how a record was obtained.
type ExtractionMode string

const (
	ModeNormal         ExtractionMode = "NORMAL"
	ModeRecovery       ExtractionMode = "RECUPERATION"
	ModeRecoveryFailed ExtractionMode = "ECHEC_RECUPERATION"
	ModeError          ExtractionMode = "ERREUR"
	ModeFilenameOnly   ExtractionMode = "NOM_FICHIER"
)
