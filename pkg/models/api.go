package models

import (
	"time"

	"github.com/RMahshie/poreview/internal/plot"
	"github.com/RMahshie/poreview/internal/signal"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateReadRequestBody describes a read whose signal is about to be uploaded
type CreateReadRequestBody struct {
	ReadID            string  `json:"read_id" format:"uuid" required:"true" doc:"Read identifier"`
	FilePath          string  `json:"file_path" minLength:"1" maxLength:"1024" required:"true" doc:"Source POD5 file"`
	ReadNumber        int     `json:"read_number,omitempty" doc:"Read number within the channel"`
	Channel           int     `json:"channel,omitempty" doc:"1-indexed channel"`
	SampleCount       int     `json:"sample_count,omitempty" minimum:"0" doc:"Declared number of samples; verified at ingest"`
	SampleRate        int     `json:"sample_rate,omitempty" minimum:"0" doc:"Samples per second"`
	CalibrationOffset float64 `json:"calibration_offset" doc:"Offset applied to ADC counts before scaling"`
	CalibrationScale  float64 `json:"calibration_scale" doc:"Scale converting offset ADC counts to pA"`
	FileSize          int64   `json:"file_size" minimum:"2" required:"true" doc:"Signal blob size in bytes"`
	MimeType          string  `json:"mime_type" enum:"application/octet-stream" required:"true" doc:"Signal blob MIME type"`
}

// CreateReadRequest represents a request to register a new read
type CreateReadRequest struct {
	Body CreateReadRequestBody
}

// CreateReadResponseBody is the body of the create read response
type CreateReadResponseBody struct {
	ID        string `json:"id" doc:"Read identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for the signal upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateReadResponse represents the response from registering a read
type CreateReadResponse struct {
	Body CreateReadResponseBody
}

// ListReadsRequest filters and sorts the file navigator listing
type ListReadsRequest struct {
	Search string `query:"search" doc:"Case-insensitive read ID prefix"`
	IDs    string `query:"ids" doc:"Comma-separated read IDs; only these reads are listed"`
	Order  string `query:"order" enum:"asc,desc" default:"asc" doc:"Sort order"`
	Level  string `query:"level" enum:"files,reads,all" default:"all" doc:"Which level the order applies to"`
}

// ListReadsResponse maps each file to its read IDs
type ListReadsResponse struct {
	Body struct {
		Files []FileReads `json:"files" doc:"Files and their reads"`
	}
}

// GetReadRequest represents a request for a read
type GetReadRequest struct {
	ID string `path:"id" doc:"Read ID"`
}

// GetReadResponseBody is the body of the read response
type GetReadResponseBody struct {
	Read    *Read          `json:"read" doc:"Read metadata"`
	Summary *SignalSummary `json:"summary,omitempty" doc:"Signal statistics once ingested"`
}

// GetReadResponse represents a read and its summary
type GetReadResponse struct {
	Body GetReadResponseBody
}

// GetReadStatusRequest represents a request to get ingest status
type GetReadStatusRequest struct {
	ID string `path:"id" doc:"Read ID"`
}

// GetReadStatusResponseBody is the body of the status response
type GetReadStatusResponseBody struct {
	ID       string `json:"id" doc:"Read ID"`
	Status   string `json:"status" enum:"pending,processing,completed,failed" doc:"Ingest status"`
	Progress int    `json:"progress" minimum:"0" maximum:"100" doc:"Ingest progress percentage"`
	Message  string `json:"message,omitempty" doc:"Human-readable status message"`
}

// GetReadStatusResponse represents the current ingest status of a read
type GetReadStatusResponse struct {
	Body GetReadStatusResponseBody
}

// StartIngestRequest represents a request to ingest an uploaded signal
type StartIngestRequest struct {
	ID string `path:"id" doc:"Read ID"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// DeleteReadRequest represents a request to delete a read and its signal
type DeleteReadRequest struct {
	ID string `path:"id" doc:"Read ID"`
}

// DownloadReadRequest represents a request for the raw signal blob
type DownloadReadRequest struct {
	ID string `path:"id" doc:"Read ID"`
}

// DownloadReadResponse carries a pre-signed URL of the raw signal blob
type DownloadReadResponse struct {
	Body struct {
		ID          string `json:"id" doc:"Read ID"`
		DownloadURL string `json:"download_url" doc:"Pre-signed S3 URL of the little-endian int16 blob"`
		ExpiresIn   int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}

// UploadSignalRequest carries a signal blob sent through the API instead of
// the pre-signed URL
type UploadSignalRequest struct {
	ID      string `path:"id" doc:"Read ID"`
	RawBody []byte `contentType:"application/octet-stream"`
}

// GetSignalPageRequest represents a request for one page of raw values
type GetSignalPageRequest struct {
	ID      string `path:"id" doc:"Read ID"`
	Page    int    `query:"page" minimum:"0" default:"0" doc:"0-based page index; clamped to the last page"`
	Size    int    `query:"size" minimum:"0" doc:"Values per page; 0 uses the server default"`
	Columns int    `query:"columns" minimum:"0" default:"10" doc:"Values per row"`
	PA      bool   `query:"pa" doc:"Return calibrated pA values"`
}

// GetSignalPageResponse represents one page of raw values
type GetSignalPageResponse struct {
	Body struct {
		ReadID string      `json:"read_id" doc:"Read ID"`
		InPA   bool        `json:"in_pa" doc:"Values are calibrated pA"`
		Page   signal.Page `json:"page" doc:"Page of values with row positions"`
	}
}

// ExportReadRequest represents a request for the full signal
type ExportReadRequest struct {
	ID     string `path:"id" doc:"Read ID"`
	Format string `query:"format" enum:"txt,json,yaml,npy" default:"txt" doc:"Export format"`
	PA     bool   `query:"pa" doc:"Export calibrated pA values"`
}

// FileResponse is a raw file download
type FileResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// PlotRequestBody describes one plot view
type PlotRequestBody struct {
	ReadIDs    []string `json:"read_ids" minItems:"1" maxItems:"50" required:"true" doc:"Reads to plot"`
	PA         bool     `json:"pa,omitempty" doc:"Plot calibrated pA values"`
	Normalized bool     `json:"normalized,omitempty" doc:"Plot standard scores computed over each full read"`
	BinCount   int      `json:"bin_count,omitempty" minimum:"0" doc:"Maximum points per trace; 0 uses the server default"`
	StartRatio float64  `json:"start_ratio,omitempty" minimum:"0" maximum:"1" doc:"Zoom start as a fraction of the longest read"`
	EndRatio   float64  `json:"end_ratio,omitempty" minimum:"0" maximum:"1" doc:"Zoom end as a fraction of the longest read"`
	From       int      `json:"from,omitempty" minimum:"0" doc:"Zoom start sample; used when to > from"`
	To         int      `json:"to,omitempty" minimum:"0" doc:"Zoom end sample (exclusive)"`
}

// PlotRequest represents a request for downsampled traces
type PlotRequest struct {
	Body PlotRequestBody
}

// PlotResponse carries the downsampled traces and overview
type PlotResponse struct {
	Body *plot.Figure
}
