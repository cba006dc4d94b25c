package api

import (
	"net/http"

	"github.com/RMahshie/poreview/internal/api/handlers"
	"github.com/RMahshie/poreview/internal/config"
	"github.com/RMahshie/poreview/internal/processing"
	"github.com/RMahshie/poreview/internal/repository"
	"github.com/RMahshie/poreview/internal/storage"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, readRepo repository.ReadRepository, s3Service storage.S3Service, signals *storage.SignalStore, processingSvc processing.ProcessingService, cfg config.SignalConfig) {
	// Initialize handlers
	readHandler := handlers.NewReadHandler(readRepo, s3Service, signals, processingSvc, cfg)
	plotHandler := handlers.NewPlotHandler(processingSvc, cfg)

	// Register read routes
	huma.Register(api, huma.Operation{
		OperationID: "createRead",
		Method:      http.MethodPost,
		Path:        "/api/reads",
		Summary:     "Register a read",
		Description: "Creates a read record and returns an upload URL for its raw signal",
		Tags:        []string{"Reads"},
	}, readHandler.CreateRead)

	huma.Register(api, huma.Operation{
		OperationID: "listReads",
		Method:      http.MethodGet,
		Path:        "/api/reads",
		Summary:     "List reads by file",
		Description: "Returns every source file with its read IDs, filtered and sorted",
		Tags:        []string{"Reads"},
	}, readHandler.ListReads)

	huma.Register(api, huma.Operation{
		OperationID: "getRead",
		Method:      http.MethodGet,
		Path:        "/api/reads/{id}",
		Summary:     "Get read",
		Description: "Returns read metadata and signal statistics once ingested",
		Tags:        []string{"Reads"},
	}, readHandler.GetRead)

	huma.Register(api, huma.Operation{
		OperationID: "getReadStatus",
		Method:      http.MethodGet,
		Path:        "/api/reads/{id}/status",
		Summary:     "Get ingest status",
		Description: "Returns the current status and progress of a read's ingest",
		Tags:        []string{"Reads"},
	}, readHandler.GetReadStatus)

	huma.Register(api, huma.Operation{
		OperationID: "startIngest",
		Method:      http.MethodPost,
		Path:        "/api/reads/{id}/ingest",
		Summary:     "Start ingest",
		Description: "Starts decoding and summarising an uploaded signal",
		Tags:        []string{"Reads"},
	}, readHandler.StartIngest)

	huma.Register(api, huma.Operation{
		OperationID: "deleteRead",
		Method:      http.MethodDelete,
		Path:        "/api/reads/{id}",
		Summary:     "Delete read",
		Description: "Deletes a read, its summary and its stored signal",
		Tags:        []string{"Reads"},
	}, readHandler.DeleteRead)

	huma.Register(api, huma.Operation{
		OperationID: "downloadRead",
		Method:      http.MethodGet,
		Path:        "/api/reads/{id}/download",
		Summary:     "Get signal download URL",
		Description: "Returns a pre-signed URL of the raw int16 signal blob",
		Tags:        []string{"Signal"},
	}, readHandler.DownloadRead)

	huma.Register(api, huma.Operation{
		OperationID:  "uploadSignal",
		Method:       http.MethodPut,
		Path:         "/api/reads/{id}/signal",
		Summary:      "Upload signal",
		Description:  "Stores a raw int16 signal blob sent in the request body",
		Tags:         []string{"Signal"},
		MaxBodyBytes: handlers.MaxSignalBytes,
	}, readHandler.UploadSignal)

	huma.Register(api, huma.Operation{
		OperationID: "getSignalPage",
		Method:      http.MethodGet,
		Path:        "/api/reads/{id}/signal",
		Summary:     "Get raw signal page",
		Description: "Returns one page of full-resolution values with row positions",
		Tags:        []string{"Signal"},
	}, readHandler.GetSignalPage)

	huma.Register(api, huma.Operation{
		OperationID: "exportRead",
		Method:      http.MethodGet,
		Path:        "/api/reads/{id}/export",
		Summary:     "Export signal",
		Description: "Downloads the complete signal as text, JSON or YAML",
		Tags:        []string{"Signal"},
	}, readHandler.ExportRead)

	// Register plot routes
	huma.Register(api, huma.Operation{
		OperationID: "createPlot",
		Method:      http.MethodPost,
		Path:        "/api/plots",
		Summary:     "Build plot",
		Description: "Returns median-downsampled traces and an overview for one or more reads",
		Tags:        []string{"Plots"},
	}, plotHandler.CreatePlot)

	huma.Register(api, huma.Operation{
		OperationID: "renderPlot",
		Method:      http.MethodPost,
		Path:        "/api/plots/svg",
		Summary:     "Render plot",
		Description: "Renders the same view as createPlot to SVG",
		Tags:        []string{"Plots"},
	}, plotHandler.RenderPlot)
}
