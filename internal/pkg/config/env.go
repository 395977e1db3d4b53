package config

import (
	"reflect"

	"ledbox-netcfg/internal/types"

	envldr "github.com/SENERGY-Platform/go-env-loader"
)

// envOverrides lists the variables a provisioning step can use to inject
// credentials and addressing without touching the config file.
type envOverrides struct {
	OTAPassword           string            `env_var:"LEDBOX_OTA_PASSWORD"`
	RouterSSID            string            `env_var:"LEDBOX_ROUTER_SSID"`
	RouterPassword        string            `env_var:"LEDBOX_ROUTER_PASSWORD"`
	ProductName           string            `env_var:"LEDBOX_PRODUCT_NAME"`
	WiFiRetryTimeoutCount int               `env_var:"LEDBOX_WIFI_RETRY_TIMEOUT_COUNT"`
	StaticIP              types.IPv4Address `env_var:"LEDBOX_STATIC_IP"`
	GatewayIP             types.IPv4Address `env_var:"LEDBOX_GATEWAY_IP"`
	SubnetMask            types.IPv4Address `env_var:"LEDBOX_SUBNET_MASK"`
}

func getTypeParser() map[reflect.Type]envldr.Parser {
	return map[reflect.Type]envldr.Parser{
		reflect.TypeFor[types.IPv4Address](): ipv4AddressParser,
	}
}

func ipv4AddressParser(_ reflect.Type, val string, _ []string, _ map[string]string) (interface{}, error) {
	return types.ParseIPv4Address(val)
}

// applyEnv overlays set LEDBOX_* variables onto s. Unset variables leave the
// current value in place.
func applyEnv(s *Settings) error {
	env := envOverrides{
		OTAPassword:           s.OTA.Password,
		RouterSSID:            s.Router.SSID,
		RouterPassword:        s.Router.Password,
		ProductName:           s.ProductName,
		WiFiRetryTimeoutCount: s.WiFiRetryTimeoutCount,
		StaticIP:              s.Network.IP,
		GatewayIP:             s.Network.Gateway,
		SubnetMask:            s.Network.Netmask,
	}

	if err := envldr.LoadEnvUserParser(&env, nil, getTypeParser(), nil); err != nil {
		return err
	}

	s.OTA.Password = env.OTAPassword
	s.Router.SSID = env.RouterSSID
	s.Router.Password = env.RouterPassword
	s.ProductName = env.ProductName
	s.WiFiRetryTimeoutCount = env.WiFiRetryTimeoutCount
	s.Network.IP = env.StaticIP
	s.Network.Gateway = env.GatewayIP
	s.Network.Netmask = env.SubnetMask
	return nil
}
