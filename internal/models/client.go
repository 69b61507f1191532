package models

// Client is a saved billing party, used to pre-fill document forms.
type Client struct {
	Base    `bson:",inline"`
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}
