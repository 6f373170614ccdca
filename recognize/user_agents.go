// SPDX-License-Identifier: EPL-2.0

package recognize

// DefaultUserAgents is the pool a User-Agent is drawn from per request.
var DefaultUserAgents = []string{
	"Dalvik/2.1.0 (Linux; U; Android 5.0.2; VS980 4G Build/LRX22G)",
	"Dalvik/1.6.0 (Linux; U; Android 4.4.2; SM-T210 Build/KOT49H)",
	"Dalvik/2.1.0 (Linux; U; Android 5.1.1; SM-P905V Build/LMY47X)",
	"Dalvik/1.6.0 (Linux; U; Android 4.4.4; Vodafone Smart Tab 4G Build/KTU84P)",
	"Dalvik/2.1.0 (Linux; U; Android 5.0.2; SM-G920F Build/LRX22G)",
	"Dalvik/2.1.0 (Linux; U; Android 6.0.1; SM-G900F Build/MMB29M)",
	"Dalvik/2.1.0 (Linux; U; Android 6.0; LG-H815 Build/MRA58K)",
	"Dalvik/2.1.0 (Linux; U; Android 7.0; SM-G930F Build/NRD90M)",
	"Dalvik/2.1.0 (Linux; U; Android 7.1.1; Nexus 5X Build/NMF26F)",
	"Dalvik/2.1.0 (Linux; U; Android 8.0.0; SM-G950F Build/R16NW)",
	"Dalvik/2.1.0 (Linux; U; Android 8.1.0; Pixel 2 Build/OPM1.171019.011)",
	"Dalvik/2.1.0 (Linux; U; Android 9; SM-G960F Build/PPR1.180610.011)",
	"Dalvik/2.1.0 (Linux; U; Android 10; Pixel 3 Build/QQ1A.200205.002)",
	"Dalvik/2.1.0 (Linux; U; Android 11; SM-A515F Build/RP1A.200720.012)",
}
