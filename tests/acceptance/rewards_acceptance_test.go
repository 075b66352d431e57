package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/greencycle/greencycle-api/config"
	"github.com/greencycle/greencycle-api/controllers"
	"github.com/greencycle/greencycle-api/middleware"
	"github.com/greencycle/greencycle-api/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RewardsAcceptanceTestSuite verifies the EcoPoints economy end to end:
// signup bonus, logging awards and voucher redemption arithmetic
type RewardsAcceptanceTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB

	citizenToken string
	citizenID    string
	adminToken   string
}

func (suite *RewardsAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")

	config.SetConfig(&config.Config{
		GoEnv:           "test",
		JWTSecret:       "test-secret",
		AdminSignupCode: "ECOADMIN",
	})
}

func (suite *RewardsAcceptanceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.NoError(db.AutoMigrate(
		&models.User{},
		&models.WasteItem{},
		&models.PickupRequest{},
		&models.CollectionReport{},
		&models.Voucher{},
	))

	suite.db = db
	config.SetDB(db)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", controllers.Register)

	authed := v1.Group("")
	authed.Use(middleware.RequireAuth())
	authed.POST("/waste/log", middleware.RequireRole(models.RoleCitizen), controllers.LogWaste)
	authed.GET("/waste/stats/:userId", controllers.GetUserStats)
	authed.GET("/rewards/users-points", middleware.RequireRole(models.RoleAdmin), controllers.GetCitizenPoints)
	authed.POST("/rewards/vouchers", middleware.RequireRole(models.RoleAdmin), controllers.IssueVoucher)
	authed.GET("/rewards/vouchers/user/:userId", controllers.GetUserVouchers)
	suite.router = router

	suite.citizenID, suite.citizenToken = suite.register("asha", "citizen", "")
	_, suite.adminToken = suite.register("meera", "admin", "ECOADMIN")
}

func (suite *RewardsAcceptanceTestSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func (suite *RewardsAcceptanceTestSuite) register(name, role, adminCode string) (string, string) {
	w, response := suite.do("POST", "/api/v1/auth/register", "", map[string]interface{}{
		"name":       name,
		"email":      name + "@example.com",
		"username":   name,
		"password":   "secret123",
		"role":       role,
		"admin_code": adminCode,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	return data["id"].(string), data["token"].(string)
}

func (suite *RewardsAcceptanceTestSuite) points() float64 {
	w, response := suite.do("GET", "/api/v1/waste/stats/"+suite.citizenID, suite.citizenToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	return response["data"].(map[string]interface{})["points"].(float64)
}

func (suite *RewardsAcceptanceTestSuite) TestSignupBonus() {
	suite.Equal(float64(100), suite.points())
}

func (suite *RewardsAcceptanceTestSuite) TestLoggingAwardsFloorOfWeightTimesTen() {
	w, response := suite.do("POST", "/api/v1/waste/log", suite.citizenToken, map[string]interface{}{
		"material": "E-Waste",
		"weight":   1.78,
	})
	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal(float64(17), response["data"].(map[string]interface{})["points_awarded"])
	suite.Equal(float64(117), suite.points())
}

func (suite *RewardsAcceptanceTestSuite) TestVoucherRedemptionArithmetic() {
	w, _ := suite.do("POST", "/api/v1/rewards/vouchers", suite.adminToken, map[string]interface{}{
		"user_id":         suite.citizenID,
		"shop_name":       "Green Mart",
		"discount_amount": 5.0,
		"points_required": 75,
		"code":            "GREEN75",
	})
	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal(float64(25), suite.points())

	// A second identical redemption no longer fits the balance
	w, response := suite.do("POST", "/api/v1/rewards/vouchers", suite.adminToken, map[string]interface{}{
		"user_id":         suite.citizenID,
		"shop_name":       "Green Mart",
		"discount_amount": 5.0,
		"points_required": 75,
		"code":            "GREEN75-2",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	errorData := response["error"].(map[string]interface{})
	suite.Equal("INSUFFICIENT_POINTS", errorData["code"])
	suite.Equal(float64(25), suite.points())

	// Only the first voucher exists
	w, response = suite.do("GET", "/api/v1/rewards/vouchers/user/"+suite.citizenID, suite.citizenToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(response["data"].([]interface{}), 1)
}

func (suite *RewardsAcceptanceTestSuite) TestAdminBalanceListing() {
	w, response := suite.do("GET", "/api/v1/rewards/users-points", suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	data := response["data"].([]interface{})
	suite.Len(data, 1, "Admins are not listed among citizen balances")
	entry := data[0].(map[string]interface{})
	suite.Equal("asha", entry["name"])
	suite.Equal(float64(100), entry["points"])
}

func TestRewardsAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(RewardsAcceptanceTestSuite))
}
