package testutil

// Rust sources for end-to-end tests through the frontend.

// HelloWorldSource is the minimal Anchor program.
const HelloWorldSource = `use anchor_lang::prelude::*;

declare_id!("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS");

#[program]
mod hello_world {
    use super::*;

    /// Says hello.
    pub fn initialize(ctx: Context<Initialize>) -> Result<()> {
        msg!("Hello, world!");
        Ok(())
    }
}

#[derive(Accounts)]
pub struct Initialize {}
`

// TokenProgramSource exercises constraints, signer inference, and raw accounts.
const TokenProgramSource = `use anchor_lang::prelude::*;

#[program]
pub mod token_program {
    use super::*;

    pub fn initialize(ctx: Context<Initialize>) -> Result<()> {
        Ok(())
    }

    pub fn transfer(ctx: Context<Transfer>, amount: u64) -> Result<()> {
        Ok(())
    }

    pub fn close(ctx: Context<CloseVault>) -> Result<()> {
        Ok(())
    }

    fn helper(&self) {}
}

#[derive(Accounts)]
pub struct Initialize<'info> {
    #[account(mut)]
    pub authority: Signer<'info>,
    /// The new mint.
    #[account(init, payer = authority, space = 8 + 32)]
    pub mint: Account<'info, MintState>,
    pub system_program: Program<'info, System>,
}

#[derive(Accounts)]
pub struct Transfer<'info> {
    pub owner: Signer<'info>,
    #[account(mut, has_one = owner)]
    pub from: Account<'info, TokenAccount>,
    #[account(mut)]
    pub to: Account<'info, TokenAccount>,
}

#[derive(Accounts)]
pub struct CloseVault<'info> {
    #[account(mut, close = owner)]
    pub vault: Account<'info, TokenAccount>,
    #[account(mut)]
    pub owner: Signer<'info>,
}

/// Persisted token balance.
#[account]
pub struct TokenAccount {
    pub owner: Pubkey,
    pub amount: u64,
}

#[account]
pub struct MintState {
    pub authority: Pubkey,
    pub supply: u64,
}
`

// CommentedVaultSource carries comments inside multi-line account attributes.
const CommentedVaultSource = `use anchor_lang::prelude::*;

#[program]
pub mod vault_program {
    use super::*;

    pub fn initialize(ctx: Context<InitVault>) -> Result<()> {
        Ok(())
    }
}

#[derive(Accounts)]
pub struct InitVault<'info> {
    #[account(
        init, // rent is paid by the authority
        payer = authority,
        space = 8 + 32 /* discriminator + key */,
        seeds = [b"vault//main", authority.key().as_ref()],
        bump
    )]
    pub vault: Account<'info, Vault>,
    #[account(mut)]
    pub authority: Signer<'info>,
}

#[account]
pub struct Vault {
    pub owner: Pubkey,
}
`

// InvalidSource does not parse.
const InvalidSource = `#[program]
mod broken {
    pub fn initialize(ctx: Context<Initialize> -> Result<()> {
`
