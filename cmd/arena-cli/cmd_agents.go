package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janhq/arena-server/pkg/arenaclient"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage agents",
	Long:  `List, create and delete the LLM backed agents that roles speak through.`,
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your agents",
	RunE:  runAgentsList,
}

var agentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an agent",
	RunE:  runAgentsCreate,
}

var agentsDeleteCmd = &cobra.Command{
	Use:   "delete [agent-id]",
	Short: "Delete an agent that no role uses",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsDelete,
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage roles",
	Long:  `List and create the personas that take part in rooms.`,
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your roles",
	RunE:  runRolesList,
}

var rolesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a role played by an agent",
	RunE:  runRolesCreate,
}

func init() {
	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsCreateCmd)
	agentsCmd.AddCommand(agentsDeleteCmd)

	agentsCreateCmd.Flags().String("name", "", "Agent name")
	agentsCreateCmd.Flags().String("provider", "openai", "Provider: openai, deepseek, ollama or mock")
	agentsCreateCmd.Flags().String("model", "", "Model name")
	agentsCreateCmd.Flags().String("system-prompt", "", "System prompt")
	agentsCreateCmd.Flags().String("api-key", "", "Provider API key for this agent")
	agentsCreateCmd.Flags().Float64("temperature", 0.7, "Sampling temperature (0-2)")
	_ = agentsCreateCmd.MarkFlagRequired("name")
	_ = agentsCreateCmd.MarkFlagRequired("model")

	rolesCmd.AddCommand(rolesListCmd)
	rolesCmd.AddCommand(rolesCreateCmd)

	rolesCreateCmd.Flags().String("agent", "", "Agent id")
	rolesCreateCmd.Flags().String("name", "", "Role name")
	rolesCreateCmd.Flags().String("gender", "", "Gender")
	rolesCreateCmd.Flags().Int("age", 0, "Age")
	rolesCreateCmd.Flags().String("profession", "", "Profession")
	rolesCreateCmd.Flags().String("personality", "", "Personality")
	rolesCreateCmd.Flags().Float64("aggressiveness", 0.5, "Aggressiveness (0-1)")
	_ = rolesCreateCmd.MarkFlagRequired("agent")
	_ = rolesCreateCmd.MarkFlagRequired("name")
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	agents, err := client.ListAgents(cmd.Context())
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		fmt.Println("No agents yet")
		return nil
	}
	for _, a := range agents {
		key := ""
		if a.HasAPIKey {
			key = "  (own key)"
		}
		fmt.Printf("  %-28s %-20s %-9s %s%s\n", a.ID, a.Name, a.Provider, a.ModelName, key)
	}
	return nil
}

func runAgentsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("system-prompt")
	apiKey, _ := cmd.Flags().GetString("api-key")
	temperature, _ := cmd.Flags().GetFloat64("temperature")

	a, err := client.CreateAgent(cmd.Context(), arenaclient.AgentParams{
		Name:         name,
		Provider:     provider,
		ModelName:    model,
		SystemPrompt: prompt,
		APIKey:       apiKey,
		Temperature:  &temperature,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created agent %s (%s)\n", a.Name, a.ID)
	return nil
}

func runAgentsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	if err := client.DeleteAgent(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted agent %s\n", args[0])
	return nil
}

func runRolesList(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	roles, err := client.ListRoles(cmd.Context())
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		fmt.Println("No roles yet")
		return nil
	}
	for _, r := range roles {
		fmt.Printf("  %-28s %-20s agent=%s %s\n", r.ID, r.Name, r.AgentID, r.Profession)
	}
	return nil
}

func runRolesCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	agentID, _ := cmd.Flags().GetString("agent")
	name, _ := cmd.Flags().GetString("name")
	gender, _ := cmd.Flags().GetString("gender")
	age, _ := cmd.Flags().GetInt("age")
	profession, _ := cmd.Flags().GetString("profession")
	personality, _ := cmd.Flags().GetString("personality")
	aggressiveness, _ := cmd.Flags().GetFloat64("aggressiveness")

	r, err := client.CreateRole(cmd.Context(), arenaclient.RoleParams{
		AgentID:        agentID,
		Name:           name,
		Gender:         gender,
		Age:            age,
		Profession:     profession,
		Personality:    personality,
		Aggressiveness: &aggressiveness,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created role %s (%s)\n", r.Name, r.ID)
	return nil
}
