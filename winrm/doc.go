// Package winrm opens a remote Windows command shell over WS-Management,
// runs commands or PowerShell scripts against it, streams their output,
// and issues WQL queries against WMI.
//
// Basic usage:
//
//	session, err := winrm.Open("https://host:5986/wsman",
//	    winrm.Credentials{Method: winrm.AuthTLSBasic, Username: "admin", Password: "secret"},
//	    winrm.NewConfig(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := session.RunCmd(ctx, "ipconfig", []string{"/all"}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(out.Stdout()))
//
// For a multi-command session, open a Shell directly instead of using the
// RunCmd/RunPowerShell composite flows, and manage its lifecycle (and the
// commands run inside it) explicitly:
//
//	shell, err := session.NewShell(ctx, winrm.WithNoProfile())
//	...
//	defer shell.Close(ctx)
package winrm
