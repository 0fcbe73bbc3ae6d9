package models

import "time"

// ProfilePic describes a stored profile image. The bytes live in object
// storage under <user_id>/<file_name>; URL is "<bucket>/<key>".
type ProfilePic struct {
	ID         string
	FileName   string
	URL        string
	UploadDate time.Time
	UserID     string
}
