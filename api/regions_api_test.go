/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chihoangvnn/regiond"
	"github.com/chihoangvnn/regiond/config"
	"github.com/chihoangvnn/regiond/database/mocks"
	"github.com/chihoangvnn/regiond/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func setupRouter(t *testing.T, ds *mocks.MockDataSource) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	service := regiond.NewTestRegiond(ds, &regiond.MockStatsSource{Stats: map[string]model.QueueStats{}}, regiond.NewMemoryCache(), redisClient)
	return NewAPI(service).Router()
}

func payloadOf(t *testing.T, body interface{}) io.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return bytes.NewReader(raw)
}

func mockAccount(region string) *model.SocialAccount {
	account := &model.SocialAccount{
		AccountID: "acct_1",
		Name:      gofakeit.Name(),
		Platform:  "facebook",
		CreatedAt: time.Now(),
		MetaData: map[string]interface{}{
			"country": "VN",
		},
	}
	if region != "" {
		account.MetaData[model.MetaAssignedRegion] = region
		account.MetaData[model.MetaAssignmentReason] = "Geographic optimization"
		account.MetaData[model.MetaAssignedAt] = time.Now().Format(time.RFC3339)
	}
	return account
}

func TestAssignRegion(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("GetSocialAccount", mock.Anything, "acct_1").Return(mockAccount(""), nil)
	ds.On("UpdateSocialAccountMetadata", mock.Anything, "acct_1", mock.Anything).Return(nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{"accountId": "acct_1"}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/regions/assign",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, response["success"])

	assignment, ok := response["assignment"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "ap-southeast-1", assignment["assignedRegion"])
	assert.Equal(t, "Geographic optimization", assignment["reason"])
	assert.NotEmpty(t, response["assignedAt"])
	ds.AssertExpectations(t)
}

func TestAssignRegionAccountNotFound(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("GetSocialAccount", mock.Anything, "acct_missing").Return(nil, fmt.Errorf("social account not found"))

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{"accountId": "acct_missing"}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/regions/assign",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "Social account not found", response["error"])
}

func TestAssignRegionMissingAccountID(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{"considerLoad": true}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/regions/assign",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Account ID is required", response["error"])
	ds.AssertNotCalled(t, "GetSocialAccount", mock.Anything, mock.Anything)
}

func TestBulkAssignOverLimit(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	accountIDs := make([]string, 101)
	for i := range accountIDs {
		accountIDs[i] = fmt.Sprintf("acct_%d", i)
	}

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{"accountIds": accountIDs}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/regions/bulk-assign",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Maximum 100 accounts can be assigned at once", response["error"])
	ds.AssertNotCalled(t, "GetSocialAccount", mock.Anything, mock.Anything)
	ds.AssertNotCalled(t, "UpdateSocialAccountMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkAssignPartialFailure(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("GetSocialAccount", mock.Anything, "acct_1").Return(mockAccount(""), nil)
	ds.On("GetSocialAccount", mock.Anything, "acct_gone").Return(nil, fmt.Errorf("social account not found"))
	ds.On("UpdateSocialAccountMetadata", mock.Anything, "acct_1", mock.Anything).Return(nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{"accountIds": []string{"acct_1", "acct_gone"}}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/regions/bulk-assign",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, response["success"])

	assignments := response["assignments"].([]interface{})
	assert.Len(t, assignments, 1)
	errs := response["errors"].([]interface{})
	assert.Len(t, errs, 1)
	assert.Equal(t, "Account acct_gone: Not found", errs[0])

	summary := response["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["total"])
	assert.Equal(t, float64(1), summary["successful"])
	assert.Equal(t, float64(1), summary["failed"])
}

func TestRebalanceDefaultsToDryRun(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("GetAllSocialAccounts", mock.Anything, "", mock.Anything, mock.Anything).Return([]model.SocialAccount{}, nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/regions/rebalance",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Found 0 accounts that should be reassigned", response["message"])

	rebalancing := response["rebalancing"].(map[string]interface{})
	assert.Equal(t, true, rebalancing["dryRun"])
	ds.AssertNotCalled(t, "UpdateSocialAccountMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestRebalanceRejectsUnknownPlatform(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{"platform": "myspace"}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/regions/rebalance",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	ds.AssertNotCalled(t, "GetAllSocialAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAssignment(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("GetSocialAccount", mock.Anything, "acct_1").Return(mockAccount("ap-southeast-1"), nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router:   router,
		Response: &response,
		Method:   http.MethodGet,
		Route:    "/regions/assignment/acct_1",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, response["success"])

	assignment := response["assignment"].(map[string]interface{})
	assert.Equal(t, "acct_1", assignment["accountId"])
	assert.Equal(t, "ap-southeast-1", assignment["assignedRegion"])
	assert.Equal(t, "Geographic optimization", assignment["reason"])
}

func TestGetAssignmentNone(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("GetSocialAccount", mock.Anything, "acct_1").Return(mockAccount(""), nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router:   router,
		Response: &response,
		Method:   http.MethodGet,
		Route:    "/regions/assignment/acct_1",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, response["success"])
	assert.Nil(t, response["assignment"])
	assert.Equal(t, "No region assignment found for this account", response["message"])
}

func TestRemoveAssignment(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("GetSocialAccount", mock.Anything, "acct_1").Return(mockAccount("ap-southeast-1"), nil)
	ds.On("UpdateSocialAccountMetadata", mock.Anything, "acct_1", mock.MatchedBy(func(metadata map[string]interface{}) bool {
		_, hasRegion := metadata[model.MetaAssignedRegion]
		_, hasReason := metadata[model.MetaAssignmentReason]
		_, hasAt := metadata[model.MetaAssignedAt]
		return !hasRegion && !hasReason && !hasAt
	})).Return(nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router:   router,
		Response: &response,
		Method:   http.MethodDelete,
		Route:    "/regions/assignment/acct_1",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Region assignment removed successfully", response["message"])

	removed := response["removedAssignment"].(map[string]interface{})
	assert.Equal(t, "ap-southeast-1", removed["previousRegion"])
	assert.Equal(t, "Geographic optimization", removed["previousReason"])
	ds.AssertExpectations(t)
}

func TestGetAvailableRegions(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	tests := []struct {
		name     string
		route    string
		expected int
	}{
		{name: "all regions", route: "/regions/available", expected: 13},
		{name: "facebook regions", route: "/regions/available?platform=facebook", expected: 13},
		{name: "unknown platform", route: "/regions/available?platform=myspace", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var response map[string]interface{}
			resp, err := SetUpTestRequest(TestRequest{
				Router:   router,
				Response: &response,
				Method:   http.MethodGet,
				Route:    tt.route,
			})
			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.Code)
			assert.Equal(t, true, response["success"])
			assert.Equal(t, float64(tt.expected), response["total"])
		})
	}
}

func TestGetRegionStats(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	accounts := []model.SocialAccount{
		*mockAccount("ap-southeast-1"),
		*mockAccount(""),
	}
	ds.On("GetAllSocialAccounts", mock.Anything, "", mock.Anything, mock.Anything).Return(accounts, nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router:   router,
		Response: &response,
		Method:   http.MethodGet,
		Route:    "/regions/stats",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, response["success"])

	stats := response["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["totalAccounts"])
	assert.Equal(t, float64(1), stats["unassigned"])

	byRegion := stats["byRegion"].(map[string]interface{})
	assert.Equal(t, float64(1), byRegion["ap-southeast-1"])
}

func TestCreateAccount(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	ds.On("CreateSocialAccount", mock.Anything, mock.Anything).Return(model.SocialAccount{
		AccountID: "acct_1",
		Name:      "growth team",
		Platform:  "tiktok",
		CreatedAt: time.Now(),
	}, nil)

	tests := []struct {
		name         string
		payload      map[string]interface{}
		expectedCode int
	}{
		{
			name:         "valid account",
			payload:      map[string]interface{}{"name": "growth team", "platform": "tiktok"},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "missing name",
			payload:      map[string]interface{}{"platform": "tiktok"},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown platform",
			payload:      map[string]interface{}{"name": "growth team", "platform": "myspace"},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var response map[string]interface{}
			resp, err := SetUpTestRequest(TestRequest{
				Payload:  payloadOf(t, tt.payload),
				Router:   router,
				Response: &response,
				Method:   http.MethodPost,
				Route:    "/accounts",
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.Code)
		})
	}
}

func TestCreateJobValidation(t *testing.T) {
	ds := new(mocks.MockDataSource)
	router := setupRouter(t, ds)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadOf(t, map[string]interface{}{"account_id": "acct_1"}),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/jobs",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	ds.AssertNotCalled(t, "GetSocialAccount", mock.Anything, mock.Anything)
}
