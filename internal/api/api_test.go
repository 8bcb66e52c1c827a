package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ougirez/elections/internal/domain"
	"github.com/ougirez/elections/internal/pkg/store/memstore"
	"github.com/ougirez/elections/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret"

type testServer struct {
	t     *testing.T
	svc   *APIService
	store *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	st := memstore.New(memstore.Seed{
		Regions: []*domain.Region{
			{Code: 1, Label: "Centre", Departments: []*domain.Department{
				{Code: 10, Label: "Mfoundi"},
				{Code: 11, Label: "Lekie"},
			}},
		},
		Communes: []*domain.Commune{
			{Code: 101, DepartmentCode: 10, Label: "Yaounde I"},
			{Code: 111, DepartmentCode: 11, Label: "Monatele"},
		},
		Parties:    []*domain.Party{{Code: 1, Label: "Independant"}, {Code: 3, Label: "A"}},
		Candidates: []memstore.SeedCandidate{{Code: 7, LastName: "X"}, {Code: 8, LastName: "Y", PartyCodes: []int64{3}}},
		Users: []memstore.SeedUser{
			{Code: 1, Username: "admin", Role: domain.RoleLabelAdministrator},
			{Code: 2, Username: "scrut", Role: domain.RoleLabelDepartmentScrutineer, DepartmentCodes: []int64{10}},
			{Code: 3, Username: "observer", Role: "Observateur"},
		},
	})

	svc, err := NewAPIService(st, Config{Secret: testSecret, RequestTimeout: 5 * time.Second, AllowOrigins: []string{"*"}})
	require.NoError(t, err)

	return &testServer{t: t, svc: svc, store: st}
}

func (s *testServer) token(userCode int64, username string) string {
	token, err := utils.GenerateAuthToken(testSecret, time.Hour, userCode, username)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.svc.Handler().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(s.t, sonic.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

const departmentBody = `{
	"participation": {
		"codeDepartement": 10,
		"nombreBureauVote": "12",
		"nombreInscrit": 1000,
		"nombreVotant": 750,
		"bulletinNul": 10,
		"suffrageExprime": 740,
		"tauxParticipation": "75,00",
		"tauxAbstention": 25
	},
	"resultats": [
		{"codeCandidat": 7, "nombreVote": 370},
		{"codeCandidat": "8", "nombreVote": 370, "codeParti": null}
	]
}`

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestValidateParticipation(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/v1/participations/validate", "", `{
		"nombreInscrits": "1000", "nombreVotants": 750, "bulletinsNuls": 10,
		"suffragesValables": 740, "tauxParticipation": 75, "tauxAbstention": "25"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["valid"])

	rec, body = s.do(http.MethodPost, "/api/v1/participations/validate", "", `{
		"nombreInscrits": 1000, "nombreVotants": 750, "bulletinsNuls": 10,
		"suffragesValables": 740, "tauxParticipation": 80, "tauxAbstention": 25
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["valid"])
	assert.Len(t, body["errors"], 2)
}

func TestSubmitDepartmentResults(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/v1/departments/submit-results", "", departmentBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(http.StatusUnauthorized), body["code"])

	rec, _ = s.do(http.MethodPost, "/api/v1/departments/submit-results", "garbage", departmentBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/departments/submit-results", s.token(3, "observer"), departmentBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	scrut := s.token(2, "scrut")
	rec, body = s.do(http.MethodPost, "/api/v1/departments/submit-results", scrut, departmentBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	results := body["resultats"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, float64(1), results[0].(map[string]interface{})["code_parti"])
	assert.Equal(t, float64(3), results[1].(map[string]interface{})["code_parti"])
	assert.Equal(t, float64(50), results[0].(map[string]interface{})["pourcentage"])

	rec, body = s.do(http.MethodPost, "/api/v1/departments/submit-results", scrut, departmentBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, true, body["is_locked"])

	rec, body = s.do(http.MethodGet, "/api/v1/departments/10/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["is_locked"])
}

func TestSubmitDepartmentResultsConsistency(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(1, "admin")
	inconsistent := strings.Replace(departmentBody, `"75,00"`, `80`, 1)

	rec, body := s.do(http.MethodPost, "/api/v1/departments/submit-results", admin, inconsistent)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, true, body["requires_confirmation"])
	assert.Len(t, body["validation_errors"], 2)

	forced := strings.Replace(inconsistent, `"resultats"`, `"forceValidation": "true", "resultats"`, 1)
	rec, body = s.do(http.MethodPost, "/api/v1/departments/submit-results", admin, forced)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	participation := body["participation"].(map[string]interface{})
	assert.Equal(t, true, participation["force_validation"])
}

func TestSubmitDepartmentResultsPayloadErrors(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(1, "admin")

	rec, _ := s.do(http.MethodPost, "/api/v1/departments/submit-results", admin, `{"participation": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := s.do(http.MethodPost, "/api/v1/departments/submit-results", admin, `{"resultats": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "participation is required")

	rec, _ = s.do(http.MethodPost, "/api/v1/departments/submit-results", admin,
		`{"participation": {"codeDepartement": 10}, "resultats": [{"codeCandidat": 7, "pourcentage": 120}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/departments/submit-results", admin,
		`{"participation": {"codeDepartement": 10}, "resultats": [{"codeCandidat": 404}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/departments/submit-results", admin,
		`{"participation": {"codeDepartement": 99}, "resultats": []}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommuneParticipation(t *testing.T) {
	s := newTestServer(t)
	scrut := s.token(2, "scrut")
	body := `{"codeCommune": %s, "nombreBureaux": 3, "nombreInscrits": 1000, "nombreVotants": 750,
		"bulletinsNuls": 10, "suffragesValables": 740, "tauxParticipation": 75, "tauxAbstention": 25}`

	rec, _ := s.do(http.MethodPost, "/api/v1/communes/participation", scrut, strings.Replace(body, "%s", "111", 1))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := s.do(http.MethodPost, "/api/v1/communes/participation", scrut, strings.Replace(body, "%s", "101", 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(75), resp["taux_participation"])

	rec, resp = s.do(http.MethodGet, "/api/v1/communes/participation?code=101", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["is_locked"])

	rec, _ = s.do(http.MethodGet, "/api/v1/communes/participation", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = s.do(http.MethodGet, "/api/v1/departments/10/recap", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := resp["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total_communes"])
	assert.Equal(t, float64(100), stats["pourcentage_completude"])
}

func TestListDepartments(t *testing.T) {
	s := newTestServer(t)

	// a broken token on a read path degrades to anonymous
	rec, body := s.do(http.MethodGet, "/api/v1/departments", "garbage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["departements"], 2)

	rec, body = s.do(http.MethodGet, "/api/v1/departments", s.token(2, "scrut"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["departements"], 1)

	rec, _ = s.do(http.MethodGet, "/api/v1/departments", s.token(3, "observer"), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(http.MethodGet, "/api/v1/me/scope", s.token(2, "scrut"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	scope := body["scope"].(map[string]interface{})
	assert.Equal(t, []interface{}{float64(10)}, scope["department_codes"])

	rec, _ = s.do(http.MethodGet, "/api/v1/me/scope", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReferenceRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/regions", "/api/v1/parties", "/api/v1/candidates", "/api/v1/participations/departments"} {
		rec, _ := s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec, _ := s.do(http.MethodGet, "/api/v1/departments/abc/recap", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/departments/99/recap", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
