package jellyfin

// SystemInfo from GET /System/Info.
type SystemInfo struct {
	ServerName      string `json:"ServerName"`
	Version         string `json:"Version"`
	ID              string `json:"Id"`
	OperatingSystem string `json:"OperatingSystem"`
}

// AuthenticationResult from POST /Users/AuthenticateByName.
type AuthenticationResult struct {
	User        *User  `json:"User"`
	AccessToken string `json:"AccessToken"`
	ServerID    string `json:"ServerId"`
}

// User from GET /Users.
type User struct {
	ID     string      `json:"Id"`
	Name   string      `json:"Name"`
	Policy *UserPolicy `json:"Policy,omitempty"`
}

// UserPolicy is the subset of the policy document jellyctl edits.
type UserPolicy struct {
	IsAdministrator  bool     `json:"IsAdministrator"`
	IsDisabled       bool     `json:"IsDisabled"`
	EnableAllFolders bool     `json:"EnableAllFolders"`
	EnabledFolders   []string `json:"EnabledFolders"`
}

// Item from GET /Items and GET /Users/{id}/Items.
type Item struct {
	ID                string            `json:"Id"`
	Name              string            `json:"Name"`
	Path              string            `json:"Path,omitempty"`
	Type              string            `json:"Type"`
	CollectionType    string            `json:"CollectionType,omitempty"`
	ProductionYear    int               `json:"ProductionYear,omitempty"`
	ProviderIDs       map[string]string `json:"ProviderIds,omitempty"`
	ParentID          string            `json:"ParentId,omitempty"`
	SeriesID          string            `json:"SeriesId,omitempty"`
	SeriesName        string            `json:"SeriesName,omitempty"`
	SeasonName        string            `json:"SeasonName,omitempty"`
	IndexNumber       *int              `json:"IndexNumber,omitempty"`
	ParentIndexNumber *int              `json:"ParentIndexNumber,omitempty"`
	Genres            []string          `json:"Genres,omitempty"`
	MediaSources      []MediaSource     `json:"MediaSources,omitempty"`
	UserData          *UserData         `json:"UserData,omitempty"`
}

// MediaSource is one version of an item. Alternate versions carry their own
// item id.
type MediaSource struct {
	ID           string        `json:"Id"`
	Name         string        `json:"Name,omitempty"`
	Path         string        `json:"Path,omitempty"`
	Container    string        `json:"Container,omitempty"`
	Size         int64         `json:"Size,omitempty"`
	MediaStreams []MediaStream `json:"MediaStreams,omitempty"`
}

type MediaStream struct {
	Type     string `json:"Type"`
	Language string `json:"Language,omitempty"`
	Index    int    `json:"Index"`
}

type UserData struct {
	PlayCount             int   `json:"PlayCount"`
	Played                bool  `json:"Played"`
	PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
}

// ItemsResponse from GET /Items.
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}

// Session from GET /Sessions.
type Session struct {
	ID             string      `json:"Id"`
	UserName       string      `json:"UserName"`
	Client         string      `json:"Client"`
	DeviceName     string      `json:"DeviceName"`
	NowPlayingItem *NowPlaying `json:"NowPlayingItem,omitempty"`
	PlayState      *PlayState  `json:"PlayState,omitempty"`
}

type NowPlaying struct {
	ID         string `json:"Id"`
	Name       string `json:"Name"`
	SeriesName string `json:"SeriesName,omitempty"`
	Path       string `json:"Path,omitempty"`
	Type       string `json:"Type"`
}

type PlayState struct {
	IsPaused      bool   `json:"IsPaused"`
	PositionTicks *int64 `json:"PositionTicks,omitempty"`
}
