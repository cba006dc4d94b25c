package handlers

import (
	"bytes"
	"context"
	"errors"

	"github.com/RMahshie/poreview/internal/config"
	"github.com/RMahshie/poreview/internal/plot"
	"github.com/RMahshie/poreview/internal/processing"
	"github.com/RMahshie/poreview/internal/signal"
	"github.com/RMahshie/poreview/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SVGContentType is the MIME type of rendered plots
const SVGContentType = "image/svg+xml"

// PlotHandler serves downsampled views of one or more reads
type PlotHandler struct {
	processingSvc processing.ProcessingService
	cfg           config.SignalConfig
}

// NewPlotHandler creates a new plot handler
func NewPlotHandler(processingSvc processing.ProcessingService, cfg config.SignalConfig) *PlotHandler {
	return &PlotHandler{processingSvc: processingSvc, cfg: cfg}
}

// CreatePlot returns the downsampled traces and overview of the requested reads
func (h *PlotHandler) CreatePlot(ctx context.Context, req *models.PlotRequest) (*models.PlotResponse, error) {
	fig, err := h.figure(ctx, req.Body)
	if err != nil {
		return nil, err
	}
	return &models.PlotResponse{Body: fig}, nil
}

// RenderPlot returns the same view as CreatePlot rendered to SVG
func (h *PlotHandler) RenderPlot(ctx context.Context, req *models.PlotRequest) (*models.FileResponse, error) {
	fig, err := h.figure(ctx, req.Body)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := plot.RenderSVG(&buf, fig); err != nil {
		return nil, huma.Error500InternalServerError("Failed to render plot", err)
	}
	return &models.FileResponse{
		ContentType:        SVGContentType,
		ContentDisposition: `inline; filename="plot.svg"`,
		Body:               buf.Bytes(),
	}, nil
}

func (h *PlotHandler) figure(ctx context.Context, body models.PlotRequestBody) (*plot.Figure, error) {
	binCount := body.BinCount
	if binCount == 0 {
		binCount = h.cfg.PlotBinCount
	}
	if binCount > h.cfg.PlotMaxBinCount {
		return nil, huma.Error400BadRequest("Bin count exceeds the server limit", nil)
	}

	inputs := make([]plot.Input, 0, len(body.ReadIDs))
	seen := make(map[uuid.UUID]bool, len(body.ReadIDs))
	for _, id := range body.ReadIDs {
		readID, err := uuid.Parse(id)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid read ID", err)
		}
		if seen[readID] {
			continue
		}
		seen[readID] = true

		read, values, err := h.processingSvc.LoadSignal(ctx, readID, body.PA)
		if err != nil {
			return nil, loadError(err)
		}
		inputs = append(inputs, plot.Input{ReadID: read.ID, Values: values})
	}

	fig, err := plot.Build(inputs, plot.Options{
		BinCount:         binCount,
		OverviewBinCount: h.cfg.OverviewBinCount,
		Normalized:       body.Normalized,
		InPA:             body.PA,
		StartRatio:       body.StartRatio,
		EndRatio:         body.EndRatio,
		From:             body.From,
		To:               body.To,
	})
	if err != nil {
		if errors.Is(err, signal.ErrInvalidWindow) || errors.Is(err, signal.ErrInvalidBinCount) {
			return nil, huma.Error400BadRequest("Invalid plot request", err)
		}
		return nil, huma.Error500InternalServerError("Failed to build plot", err)
	}

	log.Info().Int("reads", len(inputs)).Int("binWidth", fig.BinWidth).Int("start", fig.Start).Int("end", fig.End).Msg("Plot built")
	return fig, nil
}
