package models

// CreateBookingRequest creates a booking for one resource
type CreateBookingRequest struct {
	ResourceType string `json:"resource_type" binding:"required"`
	ResourceID   int64  `json:"resource_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

// CreateBookingResponse is returned after a booking is created
type CreateBookingResponse struct {
	ID          int64  `json:"id"`
	TotalAmount int64  `json:"total_amount"`
	Status      string `json:"status"`
}

// CancelBookingRequest cancels a pending booking owned by the caller
type CancelBookingRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// ListBookingsResponseItem is one element of the caller's booking list
type ListBookingsResponseItem struct {
	ID           int64  `json:"id"`
	ResourceType string `json:"resource_type"`
	ResourceID   int64  `json:"resource_id"`
	Quantity     int    `json:"quantity"`
	TotalAmount  int64  `json:"total_amount"`
	Status       string `json:"status"`
}

// ListBookingsResponse is the caller's booking list
type ListBookingsResponse []ListBookingsResponseItem

// CreatePaymentRequest starts a gateway payment session for a booking
type CreatePaymentRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// CreatePaymentResponse carries the gateway-hosted payment URL
type CreatePaymentResponse struct {
	OrderID string `json:"order_id"`
	PayURL  string `json:"pay_url"`
}

// PaymentStatusResponse is returned by the status-polling endpoint
type PaymentStatusResponse struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	ResultCode int    `json:"result_code"`
	Message    string `json:"message"`
}

// PaymentCallbackPayload is the gateway IPN body. The signature covers the
// canonical concatenation of the other fields; resultCode 0 means success.
type PaymentCallbackPayload struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// CreateFlightRequest creates a catalog flight
type CreateFlightRequest struct {
	Airline     string `json:"airline" binding:"required"`
	FlightNo    string `json:"flight_no" binding:"required"`
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	DepartsAt   string `json:"departs_at" binding:"required"`
	UnitPrice   int64  `json:"unit_price" binding:"required,min=1"`
	TotalUnits  int    `json:"total_units" binding:"required,min=1"`
}

// CreateHotelRoomRequest creates a catalog hotel room type
type CreateHotelRoomRequest struct {
	HotelName  string `json:"hotel_name" binding:"required"`
	RoomType   string `json:"room_type" binding:"required"`
	Available  *bool  `json:"available"`
	UnitPrice  int64  `json:"unit_price" binding:"required,min=1"`
	TotalUnits int    `json:"total_units" binding:"required,min=1"`
}

// CreateTourRequest creates a catalog tour departure
type CreateTourRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        *string `json:"description"`
	Destination        string  `json:"destination" binding:"required"`
	DepartsAt          string  `json:"departs_at" binding:"required"`
	Closed             bool    `json:"closed"`
	HotelComponent     int64   `json:"hotel_component"`
	TransportComponent int64   `json:"transport_component"`
	UnitPrice          int64   `json:"unit_price" binding:"required,min=1"`
	TotalUnits         int     `json:"total_units" binding:"required,min=1"`
}

// CreateVehicleTripRequest creates a catalog road-vehicle trip
type CreateVehicleTripRequest struct {
	Carrier     string `json:"carrier" binding:"required"`
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	DepartsAt   string `json:"departs_at" binding:"required"`
	UnitPrice   int64  `json:"unit_price" binding:"required,min=1"`
	TotalUnits  int    `json:"total_units" binding:"required,min=1"`
}

// CreateResourceResponse is returned for every catalog create
type CreateResourceResponse struct {
	ID int64 `json:"id"`
}
