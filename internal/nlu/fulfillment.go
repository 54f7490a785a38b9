package nlu

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FulfillmentRequest is the part of an agent webhook call the bot reads.
type FulfillmentRequest struct {
	PersonID   string
	RoomID     string
	Parameters gjson.Result
}

// ParseFulfillment reads a webhook request body. The session path ends in
// the id built by SessionID.
func ParseFulfillment(body []byte) (FulfillmentRequest, bool) {
	doc := gjson.ParseBytes(body)
	session := doc.Get("session").String()
	if session == "" {
		return FulfillmentRequest{}, false
	}
	last := session[strings.LastIndex(session, "/")+1:]
	personID, roomID, ok := strings.Cut(last, ".")
	if !ok {
		return FulfillmentRequest{}, false
	}
	return FulfillmentRequest{
		PersonID:   personID,
		RoomID:     roomID,
		Parameters: doc.Get("queryResult.parameters"),
	}, true
}
