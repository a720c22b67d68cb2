// internal/theme/theme.go
package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyTheme is returned when the server responds with a payload that
// unwraps to nothing. Callers treat it the same as a network failure.
var ErrEmptyTheme = errors.New("theme payload is empty")

// Login box position values as stored by the server.
const (
	PositionLeft    = "Left"
	PositionRight   = "Right"
	PositionDefault = "Default"
)

// AdministratorRole is checked in isolation by the search visibility rule.
const AdministratorRole = "Administrator"

// HideSearchRule restricts the search bar for a single role.
type HideSearchRule struct {
	Role string `json:"role"`
}

// CarouselImage is one slide on the login page carousel.
type CarouselImage struct {
	Image   string `json:"image"`
	Caption string `json:"caption,omitempty"`
}

// Config is the flat theme document served by the desk theme endpoint.
// Every field is optional; zero values mean "not configured". Check-type
// fields arrive as 0/1 numbers. HideSideBar and IsAppDetailsInsideTheBox are
// pointers because downstream behavior distinguishes "unset" from 0.
type Config struct {
	// Login page
	LoginPageBackgroundColor string `json:"login_page_background_color,omitempty"`
	LoginPageBackgroundImage string `json:"login_page_background_image,omitempty"`
	LoginBoxBackgroundColor  string `json:"login_box_background_color,omitempty"`
	LoginBoxBorderRadius     string `json:"login_box_border_radius,omitempty"`
	LoginBoxWidth            string `json:"login_box_width,omitempty"`
	LoginBoxPosition         string `json:"login_box_position,omitempty"`
	IsAppDetailsInsideTheBox *int   `json:"is_app_details_inside_the_box,omitempty"`
	CustomLoginPageTitle     string `json:"custom_login_page_title,omitempty"`
	LoginPageTitleColor      string `json:"login_page_title_color,omitempty"`
	LoginPageTextColor       string `json:"login_page_text_color,omitempty"`
	HideSignupLink           int    `json:"hide_signup_link,omitempty"`

	CarouselImages   []CarouselImage `json:"carousel_images,omitempty"`
	CarouselInterval int             `json:"carousel_interval,omitempty"`

	// Buttons
	PrimaryButtonColor        string `json:"primary_button_color,omitempty"`
	PrimaryButtonTextColor    string `json:"primary_button_text_color,omitempty"`
	PrimaryButtonHoverColor   string `json:"primary_button_hover_color,omitempty"`
	PrimaryButtonHoverText    string `json:"primary_button_hover_text_color,omitempty"`
	SecondaryButtonColor      string `json:"secondary_button_color,omitempty"`
	SecondaryButtonTextColor  string `json:"secondary_button_text_color,omitempty"`
	SecondaryButtonHoverColor string `json:"secondary_button_hover_color,omitempty"`
	SecondaryButtonHoverText  string `json:"secondary_button_hover_text_color,omitempty"`
	ButtonBorderRadius        string `json:"button_border_radius,omitempty"`

	// Navbar
	NavbarColor     string `json:"navbar_color,omitempty"`
	NavbarTextColor string `json:"navbar_text_color,omitempty"`
	NavbarIconColor string `json:"navbar_icon_color,omitempty"`

	// Sidebar
	SidebarBackgroundColor string `json:"sidebar_background_color,omitempty"`
	SidebarTextColor       string `json:"sidebar_text_color,omitempty"`
	SidebarHoverColor      string `json:"sidebar_hover_color,omitempty"`
	SidebarActiveItemColor string `json:"sidebar_active_item_color,omitempty"`
	HideSideBar            *int   `json:"hide_side_bar,omitempty"`

	// App chrome
	AppBackgroundColor string           `json:"app_background_color,omitempty"`
	AppTextColor       string           `json:"app_text_color,omitempty"`
	LinkColor          string           `json:"link_color,omitempty"`
	HideHelpButton     int              `json:"hide_help_button,omitempty"`
	HideAppSwitcher    int              `json:"hide_app_switcher,omitempty"`
	DefaultApp         string           `json:"default_app,omitempty"`
	HideSearch         []HideSearchRule `json:"hide_search,omitempty"`

	// Tables and lists
	TableHeaderBackgroundColor string `json:"table_header_background_color,omitempty"`
	TableHeaderTextColor       string `json:"table_header_text_color,omitempty"`
	TableRowHoverColor         string `json:"table_row_hover_color,omitempty"`
	TableBorderColor           string `json:"table_border_color,omitempty"`
	TableHideLikeComment       int    `json:"table_hide_like_comment_section,omitempty"`

	// Widgets
	WidgetBackgroundColor string `json:"widget_background_color,omitempty"`
	WidgetBorderColor     string `json:"widget_border_color,omitempty"`
	WidgetTextColor       string `json:"widget_text_color,omitempty"`

	// Footer
	CopyrightText   string `json:"copyright_text,omitempty"`
	FooterPoweredBy string `json:"footer_powered_by,omitempty"`
	StickyFooter    int    `json:"sticky_footer,omitempty"`
}

// Decode parses a theme document from raw JSON. The server may return the
// document directly or wrapped under a "message" key (the Frappe whitelisted
// response convention); both forms are accepted. An empty document decodes to
// ErrEmptyTheme so callers can fall back to cached state.
func Decode(data []byte) (*Config, error) {
	payload := bytes.TrimSpace(data)
	if len(payload) == 0 {
		return nil, ErrEmptyTheme
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("decoding theme document: %w", err)
	}

	if raw, ok := fields["message"]; ok {
		payload = bytes.TrimSpace(raw)
		if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
			return nil, ErrEmptyTheme
		}
		// Unmarshal merges into a non-nil map, which would keep the
		// envelope's own key alive past the emptiness check.
		fields = nil
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("decoding theme document: %w", err)
		}
	}

	if len(fields) == 0 {
		return nil, ErrEmptyTheme
	}

	var cfg Config
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return nil, fmt.Errorf("decoding theme document: %w", err)
	}
	return &cfg, nil
}

// ShouldHideSearch reports whether the search bar must be hidden for a user
// holding userRoles under the theme's hide_search rules.
//
// An Administrator is neither exempt nor blanket-restricted: when the user
// holds the Administrator role the rules are consulted for an Administrator
// entry and that answer is final, before any other role is considered.
func ShouldHideSearch(userRoles []string, rules []HideSearchRule) bool {
	if len(userRoles) == 0 || len(rules) == 0 {
		return false
	}

	restricted := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		restricted[rule.Role] = struct{}{}
	}

	for _, role := range userRoles {
		if role == AdministratorRole {
			_, ok := restricted[AdministratorRole]
			return ok
		}
	}

	for _, role := range userRoles {
		if _, ok := restricted[role]; ok {
			return true
		}
	}
	return false
}

func truthy(flag int) bool {
	return flag != 0
}
