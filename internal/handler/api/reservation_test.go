//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"worklab/internal/domain/user"
	"worklab/internal/handler/api"
	resdto "worklab/internal/handler/dto/response"
	"worklab/internal/usecase/commands"
	"worklab/internal/usecase/queries"
	"worklab/tests/common/builder"
	"worklab/tests/common/httptest"
	"worklab/tests/common/testutil"
	commandsmock "worklab/tests/mock/commands"
	queriesmock "worklab/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	currentUser  uuid.UUID
	currentRole  user.Role
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.currentUser = uuid.New()
	s.currentRole = user.RoleUser

	// stand-in for the auth middleware
	s.router.Use(func(c *gin.Context) {
		c.Set("user_id", s.currentUser)
		c.Set("user_role", s.currentRole)
	})
	s.router.POST("/reservations", s.handler.CreateReservation)
	s.router.GET("/reservations", s.handler.ListReservations)
	s.router.GET("/reservations/:id", s.handler.GetReservation)
	s.router.PATCH("/reservations/:id", s.handler.ModifyReservation)
	s.router.POST("/reservations/:id/cancel", s.handler.CancelReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"
	reqBody := builder.NewReservationBuilder().BuildCreateDTO()

	s.Run("success: returns 201 Created", func() {
		reservationID := uuid.New()
		s.mockCommands.EXPECT().Create(gomock.Any(), s.currentUser, gomock.Any()).
			Return(&commands.ReservationResult{ID: reservationID, NotificationQueued: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.ReservationResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(reservationID, response.ID)
		s.True(response.NotificationQueued)
	})

	s.Run("error: 409 Conflict when the slot is taken", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.currentUser, gomock.Any()).
			Return(nil, commands.ErrReservationConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 422 Unprocessable Entity when booking rules reject", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.currentUser, gomock.Any()).
			Return(nil, commands.ErrRestrictionViolated).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("error: 404 Not Found for unknown resource", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.currentUser, gomock.Any()).
			Return(nil, commands.ErrResourceNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing resource_id", mutate: testutil.Field("resource_id", nil)},
			{name: "missing start_time", mutate: testutil.Field("start_time", nil)},
			{name: "missing end_time", mutate: testutil.Field("end_time", nil)},
			{name: "malformed start_time", mutate: testutil.Field("start_time", "not-a-time")},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestModifyReservation() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String()
	reqBody := builder.NewReservationBuilder().BuildModifyDTO()

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().Modify(gomock.Any(), s.currentUser, reservationID, gomock.Any()).
			Return(&commands.ReservationResult{ID: reservationID, NotificationQueued: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 403 Forbidden for someone else's reservation", func() {
		s.mockCommands.EXPECT().Modify(gomock.Any(), s.currentUser, reservationID, gomock.Any()).
			Return(nil, commands.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("error: 422 when the reservation is no longer active", func() {
		s.mockCommands.EXPECT().Modify(gomock.Any(), s.currentUser, reservationID, gomock.Any()).
			Return(nil, commands.ErrInvalidState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("error: 400 Bad Request for malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/reservations/not-a-uuid", reqBody, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	reservationID := uuid.New()
	url := "/reservations/" + reservationID.String() + "/cancel"

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.currentUser, reservationID).
			Return(&commands.ReservationResult{ID: reservationID, NotificationQueued: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 404 Not Found for unknown reservation", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.currentUser, reservationID).
			Return(nil, commands.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	view := builder.NewReservationBuilder().WithUser(s.currentUser).BuildView()
	url := "/reservations/" + view.ID.String()

	s.Run("success: owner sees own reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.currentUser, s.currentRole, view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
	})

	s.Run("error: 403 for another user's reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.currentUser, s.currentRole, view.ID).
			Return(nil, queries.ErrReservationAccess).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestListReservations() {
	url := "/reservations"

	s.Run("success: lists own reservations", func() {
		items := []*queries.ReservationListItem{
			builder.NewReservationBuilder().BuildListItem(),
			builder.NewReservationBuilder().WithStatus("confirmed").BuildListItem(),
		}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.currentUser, gomock.Any()).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []*resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
	})

	s.Run("error: 403 when a non-admin requests all", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?all=1", nil, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("success: admin lists everything with filters", func() {
		s.currentRole = user.RoleAdmin
		defer func() { s.currentRole = user.RoleUser }()

		s.mockQueries.EXPECT().ListAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]*queries.ReservationListItem{builder.NewReservationBuilder().BuildListItem()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?all=1&status=confirmed", nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})
}
