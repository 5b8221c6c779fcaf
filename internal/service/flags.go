package service

import "time"

// Status flag keys shared between the export/import services and the notice
// endpoint. The file URL only has to survive until the next notice poll folds
// it into the completion notice; the count must outlive a full redirect
// round-trip, hence the longer TTL.
const (
	FlagExportFile  = "export:file"
	FlagExportCount = "export:count"
	FlagImportState = "import:state"
	FlagImportDone  = "import:done"
)

const (
	exportFileTTL  = 30 * time.Second
	exportCountTTL = 5 * time.Minute
)
