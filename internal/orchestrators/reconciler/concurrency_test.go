package reconciler_test

import (
	"context"
	"sync"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/lenna/internal/clients/wiki"
	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/orchestrators/reconciler"
	"github.com/KirkDiggler/lenna/internal/repositories/pagecache"
)

// joinWindow gives goroutines time to join an in-flight reconciliation.
const joinWindow = 50 * time.Millisecond

// blockingFetch makes the next FetchPage wait for release. started is closed
// once the fetch is running.
func (s *OrchestratorTestSuite) blockingFetch() (started chan struct{}, release chan struct{}, seen chan context.Context) {
	started = make(chan struct{})
	release = make(chan struct{})
	seen = make(chan context.Context, 1)
	s.mockWiki.EXPECT().
		FetchPage(gomock.Any(), "Suomi_(GFL2)").
		DoAndReturn(func(ctx context.Context, title string) (*wiki.Page, error) {
			close(started)
			<-release
			seen <- ctx
			return &wiki.Page{Title: title, Wikitext: "remote", Payload: s.remotePayload}, nil
		}).
		Times(1)
	return started, release, seen
}

func (s *OrchestratorTestSuite) TestReconcile_ConcurrentCallsShareOneFetch() {
	const callers = 8
	s.expectNoEntry()
	started, release, _ := s.blockingFetch()

	outs := make([]*reconciler.ReconcileOutput, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = s.reconcile(false, false)
		}(i)
	}

	<-started
	time.Sleep(joinWindow)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		s.Require().NoError(errs[i])
		s.Equal(s.remotePayload, outs[i].Payload)
		s.True(outs[i].Fetched)
	}

	// Every caller owns its output.
	outs[0].Update = false
	s.True(outs[1].Update)
}

func (s *OrchestratorTestSuite) TestReconcile_ForcedAndCachedCallsDoNotShare() {
	s.expectEntry(time.Hour, true)
	started, release, _ := s.blockingFetch()

	forced := make(chan *reconciler.ReconcileOutput, 1)
	go func() {
		out, err := s.reconcile(false, true)
		s.NoError(err)
		forced <- out
	}()
	<-started

	cached, err := s.reconcile(true, false)
	s.Require().NoError(err)
	s.Equal(s.cachedPayload, cached.Payload)
	s.False(cached.Fetched)

	close(release)
	out := <-forced
	s.Require().NotNil(out)
	s.Equal(s.remotePayload, out.Payload)
	s.True(out.Fetched)
}

func (s *OrchestratorTestSuite) TestReconcile_CallerCancellationDoesNotFailOthers() {
	s.expectNoEntry()
	started, release, seen := s.blockingFetch()

	leaderCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	leaderErr := make(chan error, 1)
	go func() {
		_, err := s.orchestrator.Reconcile(leaderCtx, &reconciler.ReconcileInput{
			PageID: "Suomi",
			Title:  "Suomi_(GFL2)",
		})
		leaderErr <- err
	}()
	<-started

	follower := make(chan *reconciler.ReconcileOutput, 1)
	go func() {
		out, err := s.reconcile(false, false)
		s.NoError(err)
		follower <- out
	}()
	time.Sleep(joinWindow)

	cancel()
	err := <-leaderErr
	s.Require().Error(err)
	s.Equal(errors.CodeCanceled, errors.GetCode(err))
	s.False(errors.IsRemoteQueryFailed(err))

	close(release)
	out := <-follower
	s.Require().NotNil(out)
	s.Equal(s.remotePayload, out.Payload)
	s.NoError((<-seen).Err())
}

func (s *OrchestratorTestSuite) TestPersist_SerializesWritesPerPage() {
	const writers = 16

	var (
		mu       sync.Mutex
		inFlight = map[string]int{}
		peak     = map[string]int{}
	)
	s.mockCache.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in pagecache.PutInput) (*pagecache.PutOutput, error) {
			id := in.Entry.PageID
			mu.Lock()
			inFlight[id]++
			if inFlight[id] > peak[id] {
				peak[id] = inFlight[id]
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inFlight[id]--
			mu.Unlock()
			return &pagecache.PutOutput{}, nil
		}).
		Times(writers * 2)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		for _, id := range []string{"Suomi", "weapons"} {
			wg.Add(1)
			go func(id string, updateable bool) {
				defer wg.Done()
				_, err := s.orchestrator.Persist(s.ctx, &reconciler.PersistInput{
					PageID:     id,
					Payload:    s.remotePayload,
					Updateable: updateable,
				})
				s.NoError(err)
			}(id, i%2 == 0)
		}
	}
	wg.Wait()

	s.Equal(1, peak["suomi"])
	s.Equal(1, peak["weapons"])
}
