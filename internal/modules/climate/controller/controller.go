package controller

import (
	"net/http"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/views"
)

const apiPrefix = "/api/v1.0"

// indexRoutes is the listing rendered at "/".
var indexRoutes = []views.Route{
	{Path: apiPrefix + "/precipitation", Description: "daily precipitation for the last 12 months of data"},
	{Path: apiPrefix + "/stations", Description: "station identifiers"},
	{Path: apiPrefix + "/tobs", Description: "temperature observations of the most active station, last 12 months"},
	{Path: apiPrefix + "/<start>", Description: "min/avg/max temperature from start (YYYY-MM-DD)"},
	{Path: apiPrefix + "/<start>/<end>", Description: "min/avg/max temperature from start to end inclusive"},
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service *service.Service
}

func NewClimateController(service *service.Service) ClimateController {
	return &climateControllerImpl{service: service}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET "+apiPrefix+"/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET "+apiPrefix+"/stations", c.handleStations)
	mux.HandleFunc("GET "+apiPrefix+"/tobs", c.handleTobs)
	mux.HandleFunc("GET "+apiPrefix+"/{start}", c.handleStatsFrom)
	mux.HandleFunc("GET "+apiPrefix+"/{start}/{end}", c.handleStatsRange)
}
