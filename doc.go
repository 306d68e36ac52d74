/*
Package stagehand prepares a deployment environment for the Radio FM bot
and hands control to the application process.

The bootstrap runs a strictly sequential, best-effort sequence before
anything else starts: it marks the process tree as a managed deployment,
installs the audio dependency with a single narrower fallback attempt,
and stages the credentials file from one of its well-known locations.
None of those steps can fail the boot; a deployment with no ffmpeg and
no cookie file still comes up and lets the application decide what it
can do without them.

After preparation, control transfers to exactly one downstream process:

  - server mode: the network-serving process bound to 0.0.0.0:$PORT
  - worker mode: the standalone bot process, no network contract

The launcher forwards SIGINT/SIGTERM to the child and exits with the
child's exit code, so to the hosting platform stagehand and the
application are one process.

# Usage

	boot, err := stagehand.New(".")
	if err != nil {
		log.Fatal(err)
	}

	report := boot.Prepare(ctx)
	for _, w := range report.Warnings {
		log.Println("warning:", w)
	}

	code, err := boot.Launch(ctx, stagehand.ModeWorker)
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(code)

The stagehand binary wraps the same flow in a small CLI; see
cmd/stagehand.
*/
package stagehand
