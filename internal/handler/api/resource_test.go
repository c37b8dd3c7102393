//go:build unit

package api_test

import (
	"net/http"
	"testing"

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

type ResourceHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockResourceCommands
	mockQueries  *queriesmock.MockResourceQueries
	handler      *api.ResourceHandler
	currentUser  uuid.UUID
}

func (s *ResourceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockResourceCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockResourceQueries(s.mockCtrl)
	s.handler = api.NewResourceHandler(s.mockCommands, s.mockQueries)
	s.currentUser = uuid.New()

	// stand-in for the auth middleware; role checks live in the router
	s.router.Use(func(c *gin.Context) {
		c.Set("user_id", s.currentUser)
	})
	s.router.GET("/resources", s.handler.ListResources)
	s.router.GET("/resources/:id", s.handler.GetResource)
	s.router.POST("/resources", s.handler.CreateResource)
	s.router.PUT("/resources/:id", s.handler.UpdateResource)
	s.router.DELETE("/resources/:id", s.handler.DeleteResource)
}

func (s *ResourceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestResourceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}

func (s *ResourceHandlerTestSuite) TestListResources() {
	s.Run("success: returns all resources", func() {
		views := []*queries.ResourceView{
			builder.NewResourceBuilder().BuildView(),
			builder.NewResourceBuilder().WithName("Projector").WithCategory("equipment").BuildView(),
		}
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Nil()).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources", nil, "")

		var response []*resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
	})

	s.Run("success: filters by category", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			Return([]*queries.ResourceView{builder.NewResourceBuilder().WithCategory("vehicle").BuildView()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources?category=vehicle", nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *ResourceHandlerTestSuite) TestGetResource() {
	view := builder.NewResourceBuilder().BuildView()
	url := "/resources/" + view.ID.String()

	s.Run("success: returns the resource", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.Name, response.Name)
	})

	s.Run("error: 404 for unknown resource", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).
			Return(nil, queries.ErrResourceNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ResourceHandlerTestSuite) TestCreateResource() {
	url := "/resources"
	reqBody := builder.NewResourceBuilder().BuildDTO()

	s.Run("success: returns 201 Created with new ID", func() {
		resourceID := uuid.New()
		s.mockCommands.EXPECT().Create(gomock.Any(), s.currentUser, gomock.Any()).
			Return(resourceID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: 409 Conflict for duplicate name", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.currentUser, gomock.Any()).
			Return(uuid.Nil, commands.ErrDuplicateName).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing name", mutate: testutil.Field("name", nil)},
			{name: "missing category", mutate: testutil.Field("category", nil)},
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

func (s *ResourceHandlerTestSuite) TestUpdateResource() {
	resourceID := uuid.New()
	url := "/resources/" + resourceID.String()
	reqBody := builder.NewResourceBuilder().WithName("Renamed Room").BuildDTO()

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), s.currentUser, resourceID, gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 404 for unknown resource", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), s.currentUser, resourceID, gomock.Any()).
			Return(commands.ErrResourceNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ResourceHandlerTestSuite) TestDeleteResource() {
	resourceID := uuid.New()
	url := "/resources/" + resourceID.String()

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), s.currentUser, resourceID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 409 while active reservations remain", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), s.currentUser, resourceID).
			Return(commands.ErrResourceInUse).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		s.Equal(http.StatusConflict, rec.Code)
	})
}
