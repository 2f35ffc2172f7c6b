package models

// User represents one entry of the users file. The file is owned by an
// external provisioning process; this service only ever reads it.
type User struct {
	Username string `json:"username"`
	Key      string `json:"key"`
	Pfp      string `json:"pfp"`
	Created  int64  `json:"created"`
	Theme    string `json:"theme"`
}
