package service

import (
	"context"
	"fmt"
	"time"

	apperrors "voyago/internal/errors"
	"voyago/internal/logger"
	"voyago/internal/messaging"
	"voyago/internal/models"
	"voyago/internal/repository"
	"voyago/internal/search"
)

// CatalogService manages the bookable inventory catalog. New resources start
// with remaining_units equal to total_units; the booking ledger takes over
// from there.
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
	esClient    *search.ElasticsearchClient
	natsClient  *messaging.NATSClient
}

func NewCatalogService(repos *repository.Repositories, esClient *search.ElasticsearchClient, natsClient *messaging.NATSClient) *CatalogService {
	return &CatalogService{
		catalogRepo: repos.Catalog,
		esClient:    esClient,
		natsClient:  natsClient,
	}
}

func parseDepartsAt(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid departs_at %q: expected RFC3339", value)
	}
	return t, nil
}

func (s *CatalogService) CreateFlight(ctx context.Context, req *models.CreateFlightRequest) (*models.CreateResourceResponse, error) {
	departsAt, err := parseDepartsAt(req.DepartsAt)
	if err != nil {
		return nil, err
	}

	flight := &models.Flight{
		Airline:     req.Airline,
		FlightNo:    req.FlightNo,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartsAt:   departsAt,
		UnitPrice:   req.UnitPrice,
		TotalUnits:  req.TotalUnits,
	}
	if err := s.catalogRepo.CreateFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	return &models.CreateResourceResponse{ID: flight.ID}, nil
}

func (s *CatalogService) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	flight, err := s.catalogRepo.GetFlight(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	if flight == nil {
		return nil, apperrors.ErrNotFound
	}
	return flight, nil
}

func (s *CatalogService) CreateHotelRoom(ctx context.Context, req *models.CreateHotelRoomRequest) (*models.CreateResourceResponse, error) {
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	room := &models.HotelRoom{
		HotelName:  req.HotelName,
		RoomType:   req.RoomType,
		Available:  available,
		UnitPrice:  req.UnitPrice,
		TotalUnits: req.TotalUnits,
	}
	if err := s.catalogRepo.CreateHotelRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create hotel room: %w", err)
	}

	return &models.CreateResourceResponse{ID: room.ID}, nil
}

func (s *CatalogService) GetHotelRoom(ctx context.Context, id int64) (*models.HotelRoom, error) {
	room, err := s.catalogRepo.GetHotelRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel room: %w", err)
	}
	if room == nil {
		return nil, apperrors.ErrNotFound
	}
	return room, nil
}

func (s *CatalogService) CreateTour(ctx context.Context, req *models.CreateTourRequest) (*models.CreateResourceResponse, error) {
	departsAt, err := parseDepartsAt(req.DepartsAt)
	if err != nil {
		return nil, err
	}

	tour := &models.Tour{
		Name:               req.Name,
		Description:        req.Description,
		Destination:        req.Destination,
		DepartsAt:          departsAt,
		Closed:             req.Closed,
		HotelComponent:     req.HotelComponent,
		TransportComponent: req.TransportComponent,
		UnitPrice:          req.UnitPrice,
		TotalUnits:         req.TotalUnits,
	}
	if err := s.catalogRepo.CreateTour(ctx, tour); err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}

	event := models.TourCreatedEvent{
		Tour:      *tour,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventTourCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish tour created event",
			"error", err,
			"tour_id", tour.ID)
	}

	return &models.CreateResourceResponse{ID: tour.ID}, nil
}

func (s *CatalogService) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	tour, err := s.catalogRepo.GetTour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	if tour == nil {
		return nil, apperrors.ErrNotFound
	}
	return tour, nil
}

func (s *CatalogService) ListTours(ctx context.Context, page, pageSize int) ([]models.Tour, error) {
	tours, err := s.catalogRepo.ListTours(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, nil
}

// SearchTours queries the search index. Search is unavailable when no
// Elasticsearch client was configured.
func (s *CatalogService) SearchTours(ctx context.Context, query, destination string, page, pageSize int) ([]models.Tour, error) {
	if s.esClient == nil {
		return nil, fmt.Errorf("tour search is not available")
	}

	tours, err := s.esClient.Search(ctx, query, destination, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search tours: %w", err)
	}
	return tours, nil
}

func (s *CatalogService) CreateVehicleTrip(ctx context.Context, req *models.CreateVehicleTripRequest) (*models.CreateResourceResponse, error) {
	departsAt, err := parseDepartsAt(req.DepartsAt)
	if err != nil {
		return nil, err
	}

	trip := &models.VehicleTrip{
		Carrier:     req.Carrier,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartsAt:   departsAt,
		UnitPrice:   req.UnitPrice,
		TotalUnits:  req.TotalUnits,
	}
	if err := s.catalogRepo.CreateVehicleTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create vehicle trip: %w", err)
	}

	return &models.CreateResourceResponse{ID: trip.ID}, nil
}

func (s *CatalogService) GetVehicleTrip(ctx context.Context, id int64) (*models.VehicleTrip, error) {
	trip, err := s.catalogRepo.GetVehicleTrip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle trip: %w", err)
	}
	if trip == nil {
		return nil, apperrors.ErrNotFound
	}
	return trip, nil
}
