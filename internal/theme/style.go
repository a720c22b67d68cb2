// internal/theme/style.go
package theme

import (
	"fmt"
	"sort"
	"strings"
)

// CSS custom properties owned by the theming pipeline. The consuming rule set
// is an external collaborator; these names are its contract.
const (
	PropLoginPageBackgroundColor = "--login-page-background-color"
	PropLoginPageBackgroundImage = "--login-page-background-image"
	PropLoginPageTextColor       = "--login-page-text-color"
	PropLoginBoxBackgroundColor  = "--login-box-background-color"
	PropLoginBoxBorderRadius     = "--login-box-border-radius"
	PropLoginBoxWidth            = "--login-box-width"
	PropLoginBoxPosition         = "--login-box-position"
	PropLoginBoxLeft             = "--login-box-left"
	PropLoginBoxRight            = "--login-box-right"
	PropLoginBoxTop              = "--login-box-top"
	PropLoginBoxPadding          = "--login-box-padding"
	PropLoginBoxDisplay          = "--login-box-display"
	PropAppDetailsBackground     = "--app-details-background-color"
	PropLoginContentBorder       = "--login-content-border"
	PropLoginHeadingDisplay      = "--login-heading-display"
	PropLoginTitleContent        = "--login-title-content"
	PropLoginTitleDisplay        = "--login-title-display"
	PropLoginTitleFontSize       = "--login-title-font-size"
	PropLoginTitleFontWeight     = "--login-title-font-weight"
	PropLoginTitleColor          = "--login-title-color"
	PropSignupLinkDisplay        = "--signup-link-display"
	PropCarouselImages           = "--login-carousel-images"
	PropCarouselInterval         = "--login-carousel-interval"
	PropCarouselDisplay          = "--login-carousel-display"

	PropPrimaryButtonColor        = "--primary-button-color"
	PropPrimaryButtonTextColor    = "--primary-button-text-color"
	PropPrimaryButtonHoverColor   = "--primary-button-hover-color"
	PropPrimaryButtonHoverText    = "--primary-button-hover-text-color"
	PropSecondaryButtonColor      = "--secondary-button-color"
	PropSecondaryButtonTextColor  = "--secondary-button-text-color"
	PropSecondaryButtonHoverColor = "--secondary-button-hover-color"
	PropSecondaryButtonHoverText  = "--secondary-button-hover-text-color"
	PropButtonBorderRadius        = "--button-border-radius"

	PropNavbarColor     = "--navbar-color"
	PropNavbarTextColor = "--navbar-text-color"
	PropNavbarIconColor = "--navbar-icon-color"

	PropSidebarBackgroundColor = "--sidebar-background-color"
	PropSidebarTextColor       = "--sidebar-text-color"
	PropSidebarHoverColor      = "--sidebar-hover-color"
	PropSidebarActiveItemColor = "--sidebar-active-item-color"
	PropSidebarDisplay         = "--sidebar-display"

	PropAppBackgroundColor       = "--app-background-color"
	PropAppTextColor             = "--app-text-color"
	PropLinkColor                = "--link-color"
	PropHelpButtonDisplay        = "--help-button-display"
	PropAppSwitcherDisplay       = "--app-switcher-display"
	PropAppSwitcherPointerEvents = "--app-switcher-pointer-events"

	PropTableHeaderBackgroundColor = "--table-header-background-color"
	PropTableHeaderTextColor       = "--table-header-text-color"
	PropTableRowHoverColor         = "--table-row-hover-color"
	PropTableBorderColor           = "--table-border-color"
	PropLikeCommentDisplay         = "--like-comment-section-display"

	PropWidgetBackgroundColor = "--widget-background-color"
	PropWidgetBorderColor     = "--widget-border-color"
	PropWidgetTextColor       = "--widget-text-color"

	PropFooterCopyrightContent = "--footer-copyright-content"
	PropFooterPoweredByContent = "--footer-powered-by-content"
	PropFooterPosition         = "--footer-position"
)

// Derived values for positioned login boxes.
const (
	loginBoxSideOffset        = "10%"
	loginBoxTopOutsideDetails = "22%"
	loginBoxTopInsideDetails  = "26%"
	loginBoxPaddingDefault    = "40px"
	loginBoxPaddingInsideBox  = "18px 40px 40px 40px"
)

var themedProperties = []string{
	PropLoginPageBackgroundColor,
	PropLoginPageBackgroundImage,
	PropLoginPageTextColor,
	PropLoginBoxBackgroundColor,
	PropLoginBoxBorderRadius,
	PropLoginBoxWidth,
	PropLoginBoxPosition,
	PropLoginBoxLeft,
	PropLoginBoxRight,
	PropLoginBoxTop,
	PropLoginBoxPadding,
	PropLoginBoxDisplay,
	PropAppDetailsBackground,
	PropLoginContentBorder,
	PropLoginHeadingDisplay,
	PropLoginTitleContent,
	PropLoginTitleDisplay,
	PropLoginTitleFontSize,
	PropLoginTitleFontWeight,
	PropLoginTitleColor,
	PropSignupLinkDisplay,
	PropCarouselImages,
	PropCarouselInterval,
	PropCarouselDisplay,
	PropPrimaryButtonColor,
	PropPrimaryButtonTextColor,
	PropPrimaryButtonHoverColor,
	PropPrimaryButtonHoverText,
	PropSecondaryButtonColor,
	PropSecondaryButtonTextColor,
	PropSecondaryButtonHoverColor,
	PropSecondaryButtonHoverText,
	PropButtonBorderRadius,
	PropNavbarColor,
	PropNavbarTextColor,
	PropNavbarIconColor,
	PropSidebarBackgroundColor,
	PropSidebarTextColor,
	PropSidebarHoverColor,
	PropSidebarActiveItemColor,
	PropSidebarDisplay,
	PropAppBackgroundColor,
	PropAppTextColor,
	PropLinkColor,
	PropHelpButtonDisplay,
	PropAppSwitcherDisplay,
	PropAppSwitcherPointerEvents,
	PropTableHeaderBackgroundColor,
	PropTableHeaderTextColor,
	PropTableRowHoverColor,
	PropTableBorderColor,
	PropLikeCommentDisplay,
	PropWidgetBackgroundColor,
	PropWidgetBorderColor,
	PropWidgetTextColor,
	PropFooterCopyrightContent,
	PropFooterPoweredByContent,
	PropFooterPosition,
}

// PropertyNames returns every custom property the pipeline may set. Apply
// clears all of them before setting fresh values so stale properties never
// leak across re-applications.
func PropertyNames() []string {
	names := make([]string, len(themedProperties))
	copy(names, themedProperties)
	return names
}

// defaults are properties that must always resolve to something sensible,
// even with no theme configured at all.
func defaults() map[string]string {
	return map[string]string{
		PropLoginBoxPosition:         "static",
		PropLoginBoxWidth:            "400px",
		PropLoginBoxPadding:          loginBoxPaddingDefault,
		PropLoginBoxDisplay:          "block",
		PropLoginHeadingDisplay:      "block",
		PropLoginTitleDisplay:        "none",
		PropSignupLinkDisplay:        "block",
		PropCarouselDisplay:          "none",
		PropHelpButtonDisplay:        "block",
		PropAppSwitcherDisplay:       "block",
		PropAppSwitcherPointerEvents: "auto",
		PropSidebarDisplay:           "block",
		PropLikeCommentDisplay:       "block",
		PropFooterPosition:           "static",
	}
}

// StyleSheet is the computed property set for one theme document.
type StyleSheet struct {
	properties map[string]string
}

// Get returns the computed value for a property name.
func (s StyleSheet) Get(name string) (string, bool) {
	v, ok := s.properties[name]
	return v, ok
}

// Len returns the number of computed properties.
func (s StyleSheet) Len() int {
	return len(s.properties)
}

// Names returns the computed property names in sorted order.
func (s StyleSheet) Names() []string {
	names := make([]string, 0, len(s.properties))
	for name := range s.properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderCSS renders the sheet as a :root custom-property block for preview
// and debugging.
func (s StyleSheet) RenderCSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range s.Names() {
		fmt.Fprintf(&b, "  %s: %s;\n", name, s.properties[name])
	}
	b.WriteString("}\n")
	return b.String()
}

// Compute maps a theme document to its full property set: the defaults table
// first, then one conditional mapping per configured field. A nil config
// yields defaults only. Compute is pure; callers apply the result.
func Compute(cfg *Config) StyleSheet {
	props := defaults()
	if cfg == nil {
		return StyleSheet{properties: props}
	}

	setIf(props, PropLoginPageBackgroundColor, cfg.LoginPageBackgroundColor)
	if cfg.LoginPageBackgroundImage != "" {
		props[PropLoginPageBackgroundImage] = cssURL(cfg.LoginPageBackgroundImage)
	}
	setIf(props, PropLoginPageTextColor, cfg.LoginPageTextColor)
	setIf(props, PropLoginBoxBackgroundColor, cfg.LoginBoxBackgroundColor)
	setIf(props, PropLoginBoxBorderRadius, cfg.LoginBoxBorderRadius)
	setIf(props, PropLoginBoxWidth, cfg.LoginBoxWidth)

	applyLoginBoxPosition(props, cfg)
	applyAppDetailsFlag(props, cfg.IsAppDetailsInsideTheBox)
	applyLoginTitle(props, cfg)

	if truthy(cfg.HideSignupLink) {
		props[PropSignupLinkDisplay] = "none"
	}
	applyCarousel(props, cfg)

	setIf(props, PropPrimaryButtonColor, cfg.PrimaryButtonColor)
	setIf(props, PropPrimaryButtonTextColor, cfg.PrimaryButtonTextColor)
	setIf(props, PropPrimaryButtonHoverColor, cfg.PrimaryButtonHoverColor)
	setIf(props, PropPrimaryButtonHoverText, cfg.PrimaryButtonHoverText)
	setIf(props, PropSecondaryButtonColor, cfg.SecondaryButtonColor)
	setIf(props, PropSecondaryButtonTextColor, cfg.SecondaryButtonTextColor)
	setIf(props, PropSecondaryButtonHoverColor, cfg.SecondaryButtonHoverColor)
	setIf(props, PropSecondaryButtonHoverText, cfg.SecondaryButtonHoverText)
	setIf(props, PropButtonBorderRadius, cfg.ButtonBorderRadius)

	setIf(props, PropNavbarColor, cfg.NavbarColor)
	setIf(props, PropNavbarTextColor, cfg.NavbarTextColor)
	setIf(props, PropNavbarIconColor, cfg.NavbarIconColor)

	setIf(props, PropSidebarBackgroundColor, cfg.SidebarBackgroundColor)
	setIf(props, PropSidebarTextColor, cfg.SidebarTextColor)
	setIf(props, PropSidebarHoverColor, cfg.SidebarHoverColor)
	setIf(props, PropSidebarActiveItemColor, cfg.SidebarActiveItemColor)
	if cfg.HideSideBar != nil && *cfg.HideSideBar != 0 {
		props[PropSidebarDisplay] = "none"
	}

	setIf(props, PropAppBackgroundColor, cfg.AppBackgroundColor)
	setIf(props, PropAppTextColor, cfg.AppTextColor)
	setIf(props, PropLinkColor, cfg.LinkColor)
	if truthy(cfg.HideHelpButton) {
		props[PropHelpButtonDisplay] = "none"
	}
	if truthy(cfg.HideAppSwitcher) {
		props[PropAppSwitcherDisplay] = "none"
		props[PropAppSwitcherPointerEvents] = "none"
	}

	setIf(props, PropTableHeaderBackgroundColor, cfg.TableHeaderBackgroundColor)
	setIf(props, PropTableHeaderTextColor, cfg.TableHeaderTextColor)
	setIf(props, PropTableRowHoverColor, cfg.TableRowHoverColor)
	setIf(props, PropTableBorderColor, cfg.TableBorderColor)
	if truthy(cfg.TableHideLikeComment) {
		props[PropLikeCommentDisplay] = "none"
	}

	setIf(props, PropWidgetBackgroundColor, cfg.WidgetBackgroundColor)
	setIf(props, PropWidgetBorderColor, cfg.WidgetBorderColor)
	setIf(props, PropWidgetTextColor, cfg.WidgetTextColor)

	if cfg.CopyrightText != "" {
		props[PropFooterCopyrightContent] = cssContent(cfg.CopyrightText)
	}
	if cfg.FooterPoweredBy != "" {
		props[PropFooterPoweredByContent] = cssContent(cfg.FooterPoweredBy)
	}
	if truthy(cfg.StickyFooter) {
		props[PropFooterPosition] = "fixed"
	}

	return StyleSheet{properties: props}
}

func applyLoginBoxPosition(props map[string]string, cfg *Config) {
	insideBox := cfg.IsAppDetailsInsideTheBox != nil && *cfg.IsAppDetailsInsideTheBox == 1

	switch cfg.LoginBoxPosition {
	case PositionLeft:
		props[PropLoginBoxPosition] = "absolute"
		props[PropLoginBoxLeft] = loginBoxSideOffset
		props[PropLoginBoxRight] = "auto"
	case PositionRight:
		props[PropLoginBoxPosition] = "absolute"
		props[PropLoginBoxRight] = loginBoxSideOffset
		props[PropLoginBoxLeft] = "auto"
	default:
		// Default and unset keep the static position from the defaults table.
		return
	}

	if insideBox {
		props[PropLoginBoxTop] = loginBoxTopInsideDetails
		props[PropLoginBoxPadding] = loginBoxPaddingInsideBox
	} else {
		props[PropLoginBoxTop] = loginBoxTopOutsideDetails
		props[PropLoginBoxPadding] = loginBoxPaddingDefault
	}
}

func applyAppDetailsFlag(props map[string]string, flag *int) {
	if flag == nil || *flag != 1 {
		return
	}
	props[PropAppDetailsBackground] = "transparent"
	props[PropLoginBoxBorderRadius] = "8px"
	props[PropLoginContentBorder] = "none"
}

// applyLoginTitle swaps the default heading off and enables the generated
// title group. The title string is interpolated into the content value
// verbatim: a title containing a quote character breaks the generated rule.
// The server defines no escape convention for the title, so the gap is
// preserved rather than papered over.
func applyLoginTitle(props map[string]string, cfg *Config) {
	if cfg.CustomLoginPageTitle == "" {
		return
	}
	props[PropLoginHeadingDisplay] = "none"
	props[PropLoginTitleContent] = cssContent(cfg.CustomLoginPageTitle)
	props[PropLoginTitleDisplay] = "block"
	props[PropLoginTitleFontSize] = "24px"
	props[PropLoginTitleFontWeight] = "600"
	if cfg.LoginPageTitleColor != "" {
		props[PropLoginTitleColor] = cfg.LoginPageTitleColor
	}
}

func applyCarousel(props map[string]string, cfg *Config) {
	if len(cfg.CarouselImages) == 0 {
		return
	}
	urls := make([]string, 0, len(cfg.CarouselImages))
	for _, image := range cfg.CarouselImages {
		if image.Image == "" {
			continue
		}
		urls = append(urls, cssURL(image.Image))
	}
	if len(urls) == 0 {
		return
	}
	props[PropCarouselImages] = strings.Join(urls, ", ")
	props[PropCarouselDisplay] = "block"
	if cfg.CarouselInterval > 0 {
		props[PropCarouselInterval] = fmt.Sprintf("%ds", cfg.CarouselInterval)
	}
}

func setIf(props map[string]string, name, value string) {
	if value != "" {
		props[name] = value
	}
}

func cssURL(value string) string {
	return fmt.Sprintf("url(%s)", value)
}

// cssContent wraps a string for use in a content: property. The value is
// interpolated verbatim; an embedded double quote produces a broken rule.
func cssContent(value string) string {
	return `"` + value + `"`
}
