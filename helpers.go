package proxylive

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/grishkovelli/proxylive/pkg/proxyaddr"
	"golang.org/x/net/proxy"
)

// doRequest fetches target through the proxy a and returns the body
func doRequest(ctx context.Context, target string, a proxyaddr.Address, timeout time.Duration, agent string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	transport, err := newTransport(a, timeout)
	if err != nil {
		return nil, err
	}
	defer transport.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", agent)

	client := &http.Client{Transport: transport}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// newTransport routes HTTP(S) proxies through http.ProxyURL and SOCKS
// proxies through a SOCKS dialer
func newTransport(a proxyaddr.Address, timeout time.Duration) (*http.Transport, error) {
	if !a.IsSOCKS() {
		return &http.Transport{Proxy: http.ProxyURL(a.URL())}, nil
	}

	d, err := proxy.FromURL(a.URL(), &net.Dialer{Timeout: timeout})
	if err != nil {
		return nil, err
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("socks dialer for %s does not support contexts", a)
	}

	return &http.Transport{DialContext: cd.DialContext}, nil
}

// writeFileAtomic replaces path with data through a temporary sibling file
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

func setDefaultValues(obj interface{}) {
	tof := reflect.TypeOf(obj).Elem()
	vof := reflect.ValueOf(obj).Elem()

	for i := 0; i < vof.NumField(); i++ {
		vf := vof.Field(i)
		v := tof.Field(i).Tag.Get("default")

		if v == "" || !vf.IsZero() {
			continue
		}

		switch vf.Kind() {
		case reflect.String:
			vf.SetString(v)
		case reflect.Int:
			if intv, err := strconv.ParseInt(v, 10, 64); err == nil {
				vf.SetInt(intv)
			}
		case reflect.Slice:
			if vf.Type().Elem().Kind() == reflect.String {
				values := strings.Split(v, ",")
				vf.Set(reflect.ValueOf(values))
			}
		}
	}
}

func validate(obj interface{}) error {
	tof := reflect.TypeOf(obj).Elem()
	vof := reflect.ValueOf(obj).Elem()

	for i := 0; i < vof.NumField(); i++ {
		tf := tof.Field(i)
		vf := vof.Field(i)

		v := tf.Tag.Get("validate")
		if v == "" {
			continue
		}

		if strings.Contains(v, "required") && vf.IsZero() {
			return fmt.Errorf("%w: field %q is required", ErrConfig, tf.Name)
		}

		if opts, ok := strings.CutPrefix(v, "oneof="); ok && vf.Kind() == reflect.String {
			if allowed := strings.Fields(opts); !slices.Contains(allowed, vf.String()) {
				return fmt.Errorf("%w: field %q must be one of %s, got %q", ErrConfig, tf.Name, strings.Join(allowed, "/"), vf.String())
			}
		}
	}
	return nil
}
