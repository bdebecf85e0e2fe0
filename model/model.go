package model

import "time"

const (
	SERVICE_GITHUB  int = 1
	SERVICE_DISCORD int = 2
	SERVICE_REDDIT  int = 3
	SERVICE_SLACK   int = 4
	SERVICE_SPOTIFY int = 5
	SERVICE_TIMER   int = 6
)

const (
	ACTION_GITHUB_PUSH         int = 1
	ACTION_TIMER_DAILY         int = 2
	ACTION_TIMER_DATE          int = 3
	ACTION_TIMER_FUTURE_DATE   int = 4
	ACTION_SPOTIFY_TRACK_SAVED int = 5
	ACTION_REDDIT_NEW_POST     int = 6
	ACTION_SLACK_NEW_MESSAGE   int = 7
)

const (
	REACTION_DISCORD_MESSAGE        int = 1
	REACTION_DISCORD_DM             int = 2
	REACTION_DISCORD_CREATE_CHANNEL int = 3
	REACTION_DISCORD_ADD_ROLE       int = 4
	REACTION_DISCORD_DELETE_MESSAGE int = 5
	REACTION_DISCORD_EDIT_MESSAGE   int = 6
	REACTION_DISCORD_ADD_REACTION   int = 7
	REACTION_DISCORD_KICK_MEMBER    int = 8
	REACTION_DISCORD_BAN_MEMBER     int = 9
	REACTION_DISCORD_CREATE_ROLE    int = 10
)

type Service struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// Action describes one trigger kind a workflow can subscribe to. Params is
// the ordered list of parameter names the action expects in ActionData; it is
// documentation for clients, each handler validates its own arity.
type Action struct {
	Id          int      `json:"id"`
	ServiceId   int      `json:"serviceId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Params      []string `json:"params"`
}

type Reaction struct {
	Id          int      `json:"id"`
	ServiceId   int      `json:"serviceId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Params      []string `json:"params"`
}

// Workflow binds one configured action to one configured reaction. The
// polling cursor is kept out of ActionData; workers persist it through the
// cursor store keyed by workflow id.
type Workflow struct {
	Id           string    `json:"id"`
	UserId       string    `json:"userId"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ActionId     int       `json:"actionId"`
	ActionData   []string  `json:"actionData"`
	ReactionId   int       `json:"reactionId"`
	ReactionData []string  `json:"reactionData"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserService holds one user's OAuth grant for one provider.
type UserService struct {
	UserId       string `json:"userId"`
	ServiceId    int    `json:"serviceId"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// LogEntry is one row of the append-only audit trail.
type LogEntry struct {
	Level    string         `json:"level"`
	Message  string         `json:"message"`
	Context  string         `json:"context"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Binding struct {
	Id   int      `json:"id"`
	Data []string `json:"data"`
}

type WorkflowCreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Action      Binding `json:"action"`
	Reaction    Binding `json:"reaction"`
}
