package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/exptrack/internal/events"
	"github.com/groblegark/exptrack/internal/ui"
)

var watchTopics = []string{
	events.TopicExperimentCreated,
	events.TopicExperimentUpdated,
	events.TopicExperimentDeleted,
	events.TopicVersionAdded,
	events.TopicFeatureLinked,
	events.TopicFeatureUnlinked,
	events.TopicFeatureSynced,
}

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream experiment events from NATS",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("EXPTRACK_NATS_URL")
		}
		if natsURL == "" {
			return fmt.Errorf("NATS URL required (--nats or EXPTRACK_NATS_URL)")
		}

		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		var printMu sync.Mutex
		var cancels []func()
		done := make(chan struct{})

		for _, topic := range watchTopics {
			ch, cancel, err := sub.Subscribe(topic)
			if err != nil {
				for _, c := range cancels {
					c()
				}
				return err
			}
			cancels = append(cancels, cancel)

			go func(topic string, ch <-chan []byte) {
				for data := range ch {
					printMu.Lock()
					fmt.Printf("%s %s %s\n",
						ui.RenderMuted(time.Now().Format("15:04:05")),
						ui.RenderAccent(topic),
						string(data))
					printMu.Unlock()
				}
			}(topic, ch)
		}

		fmt.Fprintf(os.Stderr, "Watching %d topics on %s (Ctrl-C to stop)\n", len(watchTopics), natsURL)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			for _, c := range cancels {
				c()
			}
			close(done)
		}()

		<-done
		return nil
	},
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS server URL")
}
