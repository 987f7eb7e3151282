package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kompihq/kompi-links/utils"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent *string
		expected  string
	}{
		{"NilUserAgent", nil, DeviceUnknown},
		{"IPhone", utils.ToPtr("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"), DeviceMobile},
		{"AndroidPhone", utils.ToPtr("Mozilla/5.0 (Linux; Android 14; Pixel 8)"), DeviceMobile},
		{"IPad", utils.ToPtr("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)"), DeviceTablet},
		{"AndroidTablet", utils.ToPtr("Mozilla/5.0 (Linux; Tablet; rv:109.0)"), DeviceTablet},
		{"Googlebot", utils.ToPtr("Mozilla/5.0 (compatible; Googlebot/2.1)"), DeviceBot},
		{"Spider", utils.ToPtr("Baiduspider+(+http://www.baidu.com/search/spider.htm)"), DeviceBot},
		{"Windows", utils.ToPtr("Mozilla/5.0 (Windows NT 10.0; Win64; x64)"), DeviceDesktop},
		{"Mac", utils.ToPtr("Mozilla/5.0 (Macintosh; Intel Mac OS X 13_0)"), DeviceDesktop},
		{"LinuxDesktop", utils.ToPtr("Mozilla/5.0 (X11; Linux x86_64)"), DeviceDesktop},
		{"CaseInsensitive", utils.ToPtr("SOMETHING WITH MOBILE INSIDE"), DeviceMobile},
		{"Unrecognized", utils.ToPtr("curl/8.4.0"), DeviceOther},
		{"Empty", utils.ToPtr(""), DeviceOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDevice(tt.userAgent))
		})
	}
}

func TestClassifyDeviceBucketPrecedence(t *testing.T) {
	// Mobile wins over the android/linux overlap, tablet wins over
	// the ipad/macintosh overlap, bot wins over its platform tokens.
	assert.Equal(t, DeviceMobile, ClassifyDevice(utils.ToPtr("Linux; Android 14; Mobile")))
	assert.Equal(t, DeviceTablet, ClassifyDevice(utils.ToPtr("iPad like Macintosh")))
	assert.Equal(t, DeviceBot, ClassifyDevice(utils.ToPtr("somebot on Windows NT")))
}

func TestReferrerLabel(t *testing.T) {
	assert.Equal(t, DirectReferrer, ReferrerLabel(nil))
	assert.Equal(t, DirectReferrer, ReferrerLabel(utils.ToPtr("")))
	assert.Equal(t, DirectReferrer, ReferrerLabel(utils.ToPtr("   ")))
	assert.Equal(t, "https://t.co/abc", ReferrerLabel(utils.ToPtr("https://t.co/abc")))
}

func TestTidyReferrerKey(t *testing.T) {
	tests := []struct {
		name     string
		referer  *string
		expected string
	}{
		{"Nil", nil, "direct"},
		{"Empty", utils.ToPtr(""), "direct"},
		{"AboutBlank", utils.ToPtr("about:blank"), "direct"},
		{"AndroidApp", utils.ToPtr("android-app://com.twitter.android"), "app"},
		{"IOSApp", utils.ToPtr("ios-app://535886823"), "app"},
		{"FullURL", utils.ToPtr("https://www.instagram.com/p/xyz"), "instagram.com"},
		{"BareHost", utils.ToPtr("news.ycombinator.com"), "news.ycombinator.com"},
		{"UppercaseHost", utils.ToPtr("https://WWW.Example.COM/path"), "example.com"},
		{"HTTPScheme", utils.ToPtr("http://t.co/short"), "t.co"},
		{"Garbage", utils.ToPtr("http://"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TidyReferrerKey(tt.referer))
		})
	}
}
