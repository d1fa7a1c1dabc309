package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealwire/internal/domain"
)

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage sender-key groups",
	}
	cmd.AddCommand(groupCreateCmd(), groupInviteCmd(), groupSendCmd(), groupRecvCmd())
	return cmd
}

// group create <member>...: mint a group and distribute our sender key.
func groupCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <member>...",
		Short: "Create a group and distribute the sender key to members",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireRelay(); err != nil {
				return err
			}

			gid, err := appCtx.Groups.CreateGroup(cmd.Context(), memberAddrs(args))
			if err != nil {
				return err
			}
			fmt.Printf("Group created: %s\n", gid)
			return nil
		},
	}
}

// group invite <group> <member>...: hand our sender key to more members.
func groupInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite <group> <member>...",
		Short: "Distribute the sender key of an existing group to more members",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireRelay(); err != nil {
				return err
			}

			gid := domain.GroupID(args[0])
			if err := appCtx.Groups.Invite(cmd.Context(), gid, memberAddrs(args[1:])); err != nil {
				return err
			}
			fmt.Println("invited")
			return nil
		},
	}
}

// group send <group> <message>: encrypt and post a group message.
func groupSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <group> <message>",
		Short: "Encrypt and post a message to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireRelay(); err != nil {
				return err
			}

			if err := appCtx.Groups.Send(cmd.Context(), domain.GroupID(args[0]), []byte(args[1])); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
}

// group recv <group>: fetch and decrypt queued group messages.
func groupRecvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recv <group>",
		Short: "Fetch and decrypt queued group messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireRelay(); err != nil {
				return err
			}

			msgs, err := appCtx.Groups.Receive(cmd.Context(), domain.GroupID(args[0]), 0)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Printf("[%s] %s\n", m.From, string(m.Plaintext))
			}
			return nil
		},
	}
}

func memberAddrs(names []string) []domain.ProtocolAddress {
	out := make([]domain.ProtocolAddress, 0, len(names))
	for _, n := range names {
		out = append(out, domain.NewAddress(n, deviceID))
	}
	return out
}
