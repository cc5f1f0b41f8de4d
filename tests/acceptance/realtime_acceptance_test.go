package acceptance

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/honeyhomes/honey-homes-api/tests/testutil"
)

func newAvatarRequest(suite *HoneyHomesAcceptanceTestSuite, target, token string) *http.Request {
	return testutil.NewAvatarRequest(suite.T(), target, token, "avatar.png", testutil.PNGBytes)
}

func (suite *HoneyHomesAcceptanceTestSuite) realtimeURL(token string) string {
	u := "ws" + strings.TrimPrefix(suite.server.URL, "http") + "/api/v1/realtime/profiles"
	if token != "" {
		u += "?access_token=" + url.QueryEscape(token)
	}
	return u
}

// TestProfileUpdatesArriveOverWebsocket keeps a profile view live
func (suite *HoneyHomesAcceptanceTestSuite) TestProfileUpdatesArriveOverWebsocket() {
	user := suite.signUp("live@example.com", "Lata Live", models.RoleCustomer)

	conn, resp, err := websocket.DefaultDialer.Dial(suite.realtimeURL(user.Token), nil)
	suite.Require().NoError(err)
	defer conn.Close()
	suite.Equal(http.StatusSwitchingProtocols, resp.StatusCode)

	hub := services.GetRealtimeHub()
	suite.Require().Eventually(func() bool {
		return hub.SubscriberCount(user.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	status, _ := suite.makeRequest(http.MethodPut, "/api/v1/profile", user.Token, map[string]string{
		"city": "Mysuru",
	})
	suite.Require().Equal(http.StatusOK, status)

	var event struct {
		Type            string         `json:"type"`
		Table           string         `json:"table"`
		Record          models.Profile `json:"record"`
		CommitTimestamp time.Time      `json:"commit_timestamp"`
	}
	suite.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	suite.Require().NoError(conn.ReadJSON(&event))

	suite.Equal("UPDATE", event.Type)
	suite.Equal("profiles", event.Table)
	suite.Equal(user.ID, event.Record.ID)
	suite.Require().NotNil(event.Record.City)
	suite.Equal("Mysuru", *event.Record.City)
	suite.False(event.CommitTimestamp.IsZero())
}

// TestOtherUsersUpdatesAreNotDelivered checks events stay with their owner
func (suite *HoneyHomesAcceptanceTestSuite) TestOtherUsersUpdatesAreNotDelivered() {
	watcher := suite.signUp("watch@example.com", "Wanda Watcher", models.RoleCustomer)
	other := suite.signUp("other@example.com", "Omar Other", models.RoleCustomer)

	conn, _, err := websocket.DefaultDialer.Dial(suite.realtimeURL(watcher.Token), nil)
	suite.Require().NoError(err)
	defer conn.Close()

	hub := services.GetRealtimeHub()
	suite.Require().Eventually(func() bool {
		return hub.SubscriberCount(watcher.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	status, _ := suite.makeRequest(http.MethodPut, "/api/v1/profile", other.Token, map[string]string{
		"city": "Chennai",
	})
	suite.Require().Equal(http.StatusOK, status)

	suite.Require().NoError(conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)))
	_, _, err = conn.ReadMessage()
	suite.Error(err, "no event expected for another user's profile")
}

// TestRealtimeRequiresToken rejects anonymous subscribers
func (suite *HoneyHomesAcceptanceTestSuite) TestRealtimeRequiresToken() {
	_, resp, err := websocket.DefaultDialer.Dial(suite.realtimeURL(""), nil)
	suite.Require().ErrorIs(err, websocket.ErrBadHandshake)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}
