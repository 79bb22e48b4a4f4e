package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janhq/arena-server/pkg/arenaclient"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Manage rooms and follow their sessions",
	Long:  `Create rooms, drive their lifecycle, read transcripts and watch them live.`,
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your rooms",
	RunE:  runRoomsList,
}

var roomsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a room",
	RunE:  runRoomsCreate,
}

var roomsJoinCmd = &cobra.Command{
	Use:   "join [room-id] [role-id]",
	Short: "Add a role to a room",
	Args:  cobra.ExactArgs(2),
	RunE:  runRoomsJoin,
}

var roomsDeleteCmd = &cobra.Command{
	Use:   "delete [room-id]",
	Short: "Delete a room with all of its sessions",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoomsDelete,
}

var roomsMessagesCmd = &cobra.Command{
	Use:   "messages [room-id]",
	Short: "Print a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoomsMessages,
}

var roomsWatchCmd = &cobra.Command{
	Use:   "watch [room-id]",
	Short: "Follow a room live",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoomsWatch,
}

var roomsSayCmd = &cobra.Command{
	Use:   "say [room-id] [text...]",
	Short: "Post a message into the room's current session",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRoomsSay,
}

// lifecycle commands share one runner
var roomLifecycle = map[string]struct {
	short string
	call  func(*arenaclient.Client, *cobra.Command, string) (*arenaclient.Room, error)
}{
	"start": {"Start or resume the room's session", func(c *arenaclient.Client, cmd *cobra.Command, id string) (*arenaclient.Room, error) {
		return c.StartRoom(cmd.Context(), id)
	}},
	"stop": {"Pause the room, keeping its session open", func(c *arenaclient.Client, cmd *cobra.Command, id string) (*arenaclient.Room, error) {
		return c.StopRoom(cmd.Context(), id)
	}},
	"restart": {"Close the session and start a fresh one", func(c *arenaclient.Client, cmd *cobra.Command, id string) (*arenaclient.Room, error) {
		return c.RestartRoom(cmd.Context(), id)
	}},
	"finish": {"End the room's session", func(c *arenaclient.Client, cmd *cobra.Command, id string) (*arenaclient.Room, error) {
		return c.FinishRoom(cmd.Context(), id)
	}},
}

func init() {
	roomsCmd.AddCommand(roomsListCmd)
	roomsCmd.AddCommand(roomsCreateCmd)
	roomsCmd.AddCommand(roomsJoinCmd)
	roomsCmd.AddCommand(roomsDeleteCmd)
	roomsCmd.AddCommand(roomsMessagesCmd)
	roomsCmd.AddCommand(roomsWatchCmd)
	roomsCmd.AddCommand(roomsSayCmd)

	for _, name := range []string{"start", "stop", "restart", "finish"} {
		op := roomLifecycle[name]
		roomsCmd.AddCommand(&cobra.Command{
			Use:   name + " [room-id]",
			Short: op.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := newClient(cmd)
				if err != nil {
					return err
				}
				r, err := op.call(client, cmd, args[0])
				if err != nil {
					return err
				}
				printRoom(r)
				return nil
			},
		})
	}

	roomsCreateCmd.Flags().String("name", "", "Room name")
	roomsCreateCmd.Flags().String("topic", "", "Topic the roles discuss")
	roomsCreateCmd.Flags().String("mode", "debate", "Mode: debate or group_chat")
	roomsCreateCmd.Flags().Int("max-rounds", 20, "Turns before the room finishes")
	roomsCreateCmd.Flags().StringSlice("role", nil, "Role id, in speaking order (repeatable)")
	_ = roomsCreateCmd.MarkFlagRequired("name")
	_ = roomsCreateCmd.MarkFlagRequired("topic")

	roomsMessagesCmd.Flags().String("session", "", "Session id (defaults to the current session)")
	roomsMessagesCmd.Flags().Int64("after", 0, "Only messages after this id")
	roomsMessagesCmd.Flags().Int("limit", 0, "Page size (0 fetches everything)")
}

func printRoom(r *arenaclient.Room) {
	session := "-"
	if r.SessionID != nil {
		session = *r.SessionID
	}
	fmt.Printf("  %-28s %-20s %-10s %-10s round %d/%d  session %s\n",
		r.ID, r.Name, r.Mode, r.Status, r.CurrentRounds, r.MaxRounds, session)
	if r.LastError != "" {
		fmt.Printf("    last error: %s\n", r.LastError)
	}
}

func printMessage(m *arenaclient.Message) {
	fmt.Printf("[%s] #%d %s: %s\n", shortTime(m.CreatedAt), m.ID, m.SenderName, m.Content)
}

func runRoomsList(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	rooms, err := client.ListRooms(cmd.Context())
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Println("No rooms yet")
		return nil
	}
	for i := range rooms {
		printRoom(&rooms[i])
	}
	return nil
}

func runRoomsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	topic, _ := cmd.Flags().GetString("topic")
	mode, _ := cmd.Flags().GetString("mode")
	maxRounds, _ := cmd.Flags().GetInt("max-rounds")
	roles, _ := cmd.Flags().GetStringSlice("role")

	r, err := client.CreateRoom(cmd.Context(), arenaclient.RoomParams{
		Name:      name,
		Topic:     topic,
		Mode:      mode,
		MaxRounds: &maxRounds,
		RoleIDs:   roles,
	})
	if err != nil {
		return err
	}
	printRoom(r)
	return nil
}

func runRoomsJoin(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	r, err := client.JoinRoom(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	printRoom(r)
	return nil
}

func runRoomsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := client.DeleteRoom(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted room %s\n", args[0])
	return nil
}

func runRoomsMessages(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	session, _ := cmd.Flags().GetString("session")
	after, _ := cmd.Flags().GetInt64("after")
	limit, _ := cmd.Flags().GetInt("limit")

	var res *arenaclient.FetchResult
	if limit > 0 {
		res, err = client.FetchMessages(cmd.Context(), args[0], arenaclient.MessagesQuery{SessionID: session, AfterID: after, Limit: limit})
	} else {
		res, err = client.FetchAll(cmd.Context(), args[0], session, after)
	}
	if err != nil {
		return err
	}
	if res.SessionID == "" {
		fmt.Println("Room has no session yet")
		return nil
	}
	fmt.Printf("Session %s\n", res.SessionID)
	for i := range res.Messages {
		printMessage(&res.Messages[i])
	}
	if res.HasMore {
		last := res.Messages[len(res.Messages)-1].ID
		fmt.Printf("... more after #%d\n", last)
	}
	return nil
}

func runRoomsWatch(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	fmt.Printf("Watching room %s, Ctrl+C to leave\n", args[0])
	err = client.Watch(cmd.Context(), args[0], func(u arenaclient.Update) {
		switch u.Kind {
		case arenaclient.UpdateAppended:
			printMessage(u.Message)
		case arenaclient.UpdateReset:
			fmt.Println("--- new session ---")
			if u.Message != nil {
				printMessage(u.Message)
			}
		case arenaclient.UpdateStatus:
			st := u.Status
			line := fmt.Sprintf("* room %s, round %d/%d", st.Status, st.CurrentRounds, st.MaxRounds)
			if st.LastError != "" {
				line += ", last error: " + st.LastError
			}
			fmt.Println(line)
		case arenaclient.UpdateError:
			fmt.Printf("! %s: %s\n", u.Error.Code, u.Error.Message)
		}
	})
	if err != nil {
		return err
	}
	fmt.Println("Stream closed")
	return nil
}

func runRoomsSay(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	m, err := client.PostMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	printMessage(m)
	return nil
}
