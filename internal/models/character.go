package models

// Character is a static persona definition the completion model is instructed
// to role-play. Loaded once at startup and never mutated.
type Character struct {
	Name     string `json:"name"`
	Universe string `json:"universe"`
	Traits   string `json:"traits"`
	Style    string `json:"style"`
	Avatar   string `json:"avatar"`
}

// CharacterView is a Character enriched with a resolved avatar URL for display
type CharacterView struct {
	Character
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ChatRequest is the body of POST /chat. None of the fields are required;
// missing values fall back to defaults instead of erroring.
type ChatRequest struct {
	Message   string `json:"message"`
	Character string `json:"character"`
	ChatID    string `json:"chatId"`
}

// ChatResponse is the body returned by POST /chat
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ImageRequest is the body of POST /get_character_image
type ImageRequest struct {
	Character string `json:"character"`
}

// ImageResponse is the body returned by POST /get_character_image
type ImageResponse struct {
	ImageURL string `json:"image_url"`
}
