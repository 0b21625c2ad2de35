package shellcmd

import "fmt"

// KubeadmInit builds the cluster-init invocation. The CIDR flag is included
// only when the selected network plugin requires one; plugins that require a
// CIDR assume the init command received exactly that value.
func KubeadmInit(advertiseAddr, podCIDR string) Command {
	args := []string{"init", "--apiserver-advertise-address=" + advertiseAddr}
	if podCIDR != "" {
		args = append(args, "--pod-network-cidr="+podCIDR)
	}
	return New("kubeadm", args...).Sudo()
}

// KubeadmVersion reports the init tool's own version string, used to
// parameterize version-negotiated overlay manifests.
func KubeadmVersion() Command {
	return New("kubeadm", "version", "-o", "short")
}

// KubeadmMintJoinScript mints a fresh join command and persists it at path.
func KubeadmMintJoinScript(path string) Command {
	return New("kubeadm", "token", "create", "--print-join-command").Sudo().RedirectTo(path)
}

// KubectlApply applies a manifest reference (URL or local path) using the
// admin credential installed for the operating user.
func KubectlApply(ref string) Command {
	return New("kubectl", "apply", "-f", ref)
}

// KubectlApplyPatched fetches a manifest, rewrites it with the given sed
// program, and applies the result. Used for plugins whose manifests must be
// pointed at the host-only network adapter.
func KubectlApplyPatched(ref, sedProgram string) Command {
	return New("curl", "-sSL", ref).
		Pipe("sed", sedProgram).
		Pipe("kubectl", "apply", "-f", "-")
}

// ScpFetch copies a remote file from host onto the local machine over the
// pre-staged key pair. Host-key verification is relaxed: the lab network is
// closed and the machines are rebuilt on every run.
func ScpFetch(user, host, remotePath, localPath, identityFile string) Command {
	return New("scp",
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		"-i", identityFile,
		fmt.Sprintf("%s@%s:%s", user, host, remotePath),
		localPath,
	)
}

// RouteReplace installs a static route to cidr via the gateway address.
// "replace" rather than "add" keeps the step idempotent on re-runs.
func RouteReplace(cidr, via string) Command {
	return New("ip", "route", "replace", cidr, "via", via).Sudo()
}

// InstallPackages installs packages through the node's package manager.
func InstallPackages(pkgs ...string) Command {
	args := append([]string{"install", "-y"}, pkgs...)
	return New("yum", args...).Sudo()
}

// EnableService enables and starts a system service.
func EnableService(name string) Command {
	return New("systemctl", "enable", "--now", name).Sudo()
}

// SysctlSet applies a kernel networking parameter immediately.
func SysctlSet(key, value string) Command {
	return New("sysctl", "-w", fmt.Sprintf("%s=%s", key, value)).Sudo()
}

// DisableSwap turns swap off for the running system.
func DisableSwap() Command {
	return New("swapoff", "-a").Sudo()
}

// DisableSwapPersistent comments out swap entries so the setting survives
// reboot.
func DisableSwapPersistent() Command {
	return New("sed", "-i", `/\sswap\s/s/^/#/`, "/etc/fstab").Sudo()
}

// InterfaceAddr prints the IPv4 address configured on the named adapter.
func InterfaceAddr(adapter string) Command {
	return New("ip", "-4", "-o", "addr", "show", "dev", adapter).
		Pipe("awk", "{print $4}").
		Pipe("cut", "-d/", "-f1")
}

// FileExists succeeds when path exists on the machine.
func FileExists(path string) Command {
	return New("test", "-e", path)
}

// MakeExecutable marks path executable.
func MakeExecutable(path string) Command {
	return New("chmod", "+x", path).Sudo()
}

// MakeDir creates a directory and any missing parents.
func MakeDir(path string) Command {
	return New("mkdir", "-p", path).Sudo()
}

// RunScript executes a previously fetched script.
func RunScript(path string) Command {
	return New("bash", path).Sudo()
}

// CopyFile copies a file on the machine itself.
func CopyFile(src, dst string) Command {
	return New("cp", src, dst).Sudo()
}

// Chown changes ownership of a path.
func Chown(owner, path string) Command {
	return New("chown", owner, path).Sudo()
}

// ReadFile prints a file's contents to stdout.
func ReadFile(path string) Command {
	return New("cat", path).Sudo()
}
