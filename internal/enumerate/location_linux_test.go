package enumerate

import (
	"os"
	"path/filepath"
	"testing"
)

// fakeSysfs builds root/<tty>/device as a symlink to a target directory
// chain, mimicking the /sys/class/tty layout.
func fakeSysfs(t *testing.T, tty string, chain ...string) string {
	t.Helper()
	root := t.TempDir()

	target := filepath.Join(append([]string{root, "devices"}, chain...)...)
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	ttyDir := filepath.Join(root, tty)
	if err := os.MkdirAll(ttyDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(ttyDir, "device")); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLocationFromSysfs(t *testing.T) {
	t.Run("ttyUSB below the interface", func(t *testing.T) {
		root := fakeSysfs(t, "ttyUSB0", "usb1", "1-1", "1-1.4", "1-1.4:1.0", "ttyUSB0")
		got, err := locationFromSysfs(root, "/dev/ttyUSB0")
		if err != nil {
			t.Fatal(err)
		}
		if got != "1-1.4:1.0" {
			t.Errorf("location = %q, want 1-1.4:1.0", got)
		}
	})

	t.Run("ttyACM is the interface", func(t *testing.T) {
		root := fakeSysfs(t, "ttyACM0", "usb3", "3-2", "3-2:1.2")
		got, err := locationFromSysfs(root, "/dev/ttyACM0")
		if err != nil {
			t.Fatal(err)
		}
		if got != "3-2:1.2" {
			t.Errorf("location = %q, want 3-2:1.2", got)
		}
	})

	t.Run("deepest interface component wins", func(t *testing.T) {
		root := fakeSysfs(t, "ttyUSB1", "usb1", "1-1", "1-1:1.0", "1-1.4", "1-1.4:1.3", "ttyUSB1")
		got, err := locationFromSysfs(root, "ttyUSB1")
		if err != nil {
			t.Fatal(err)
		}
		if got != "1-1.4:1.3" {
			t.Errorf("location = %q, want 1-1.4:1.3", got)
		}
	})

	t.Run("non-USB tty has no interface component", func(t *testing.T) {
		root := fakeSysfs(t, "ttyS0", "platform", "serial8250", "ttyS0")
		if _, err := locationFromSysfs(root, "/dev/ttyS0"); err == nil {
			t.Errorf("expected an error for a non-USB tty")
		}
	})

	t.Run("unknown tty", func(t *testing.T) {
		if _, err := locationFromSysfs(t.TempDir(), "/dev/ttyUSB9"); err == nil {
			t.Errorf("expected an error for a missing sysfs entry")
		}
	})
}

func TestInterfacePattern(t *testing.T) {
	valid := []string{"1-1.4:1.0", "3-2:1.2", "12-1.2.3:2.15"}
	for _, name := range valid {
		if !interfacePattern.MatchString(name) {
			t.Errorf("%q should be recognized as an interface directory", name)
		}
	}
	invalid := []string{"usb1", "1-1", "ttyUSB0", "1-1.4", "devices"}
	for _, name := range invalid {
		if interfacePattern.MatchString(name) {
			t.Errorf("%q should not be recognized as an interface directory", name)
		}
	}
}
